package cmd

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/refsim/refsim/refl"
)

// beamsCmd lists the built-in direct beam spectra and their wavelength ranges.
var beamsCmd = &cobra.Command{
	Use:   "beams",
	Short: "List built-in direct beam spectra",
	Run: func(cmd *cobra.Command, args []string) {
		for _, polarised := range []bool{false, true} {
			label := "non-polarised"
			if polarised {
				label = "polarised"
			}
			names := refl.Instruments(polarised)
			sort.Strings(names)
			for _, name := range names {
				beam, err := refl.LoadDirectBeam(name, polarised)
				if err != nil {
					logrus.Fatalf("Unable to load bundled spectrum %s: %v", name, err)
				}
				lo := beam.Wavelength[0]
				hi := beam.Wavelength[beam.Len()-1]
				if lo > hi {
					lo, hi = hi, lo
				}
				fmt.Printf("%-8s %-14s %4d points, %.2f-%.2f A\n",
					name, label, beam.Len(), lo, hi)
			}
		}
	},
}
