package compile

var (
	Debug   = false  // set to true for verbose debug output
	PNG     = false  // set to true to save PNG slices of every voxelized grid
	PNGDir  = "pngs" // directory PNG slices are written to
	Workers = 0      // goroutines generating runlines, 0 for GOMAXPROCS
)
