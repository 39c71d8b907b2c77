package fonts

import (
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// GoRegular returns the Go Regular TrueType program.
func GoRegular() []byte { return goregular.TTF }

// GoBold returns the Go Bold TrueType program.
func GoBold() []byte { return gobold.TTF }
