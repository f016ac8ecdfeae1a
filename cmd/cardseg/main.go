// cardseg - card colour and accent arc extraction
//
// cardseg segments the club cards of a shot-selection mockup into
// background, accent and text colours, fits the accent ring and writes a
// JSON manifest for the UI prototype.
package main

import (
	"os"

	"github.com/setanarut/cardseg/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
