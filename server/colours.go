package server

const (
	resetColor = "\033[0m"
	gray       = "\033[90m"

	green  = "\033[32m"
	yellow = "\033[33m"
	blue   = "\033[34m"
	red    = "\033[31m"
)

// methodColors maps HTTP methods to terminal colors for the DEV route log
var methodColors = map[string]string{
	"GET":    green,
	"POST":   yellow,
	"PUT":    blue,
	"DELETE": red,
}
