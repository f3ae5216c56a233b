package refl

import (
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

//go:embed data/directbeams/*.dat
var directBeamFS embed.FS

// Built-in direct beam reference spectra, keyed by instrument name.
var (
	nonPolarisedBeams = map[string]string{
		"OFFSPEC": "OFFSPEC_non_polarised.dat",
		"SURF":    "SURF_non_polarised.dat",
		"POLREF":  "POLREF_non_polarised.dat",
		"INTER":   "INTER_non_polarised.dat",
	}

	polarisedBeams = map[string]string{
		"OFFSPEC": "OFFSPEC_polarised.dat",
		"POLREF":  "POLREF_polarised.dat",
	}
)

// Instruments returns the built-in instrument names for the given
// polarisation, sorted order not guaranteed.
func Instruments(polarised bool) []string {
	beams := nonPolarisedBeams
	if polarised {
		beams = polarisedBeams
	}
	names := make([]string, 0, len(beams))
	for name := range beams {
		names = append(names, name)
	}
	return names
}

// DirectBeamSpectrum holds a direct-beam flux measurement: incident flux
// per wavelength, as measured at a reference angle. Wavelengths are strictly
// monotonic (either direction), so the derived Q values are monotonic too.
type DirectBeamSpectrum struct {
	Wavelength []float64 // angstroms
	Flux       []float64 // counts per second per wavelength bin
}

// Len returns the number of points in the spectrum.
func (s *DirectBeamSpectrum) Len() int { return len(s.Wavelength) }

// LoadDirectBeam resolves instOrPath against the built-in registry for the
// requested polarisation, falling back to the filesystem. A name that is
// neither a known instrument nor an existing file yields ErrResourceNotFound.
func LoadDirectBeam(instOrPath string, polarised bool) (*DirectBeamSpectrum, error) {
	beams := nonPolarisedBeams
	if polarised {
		beams = polarisedBeams
	}

	if file, ok := beams[instOrPath]; ok {
		f, err := directBeamFS.Open("data/directbeams/" + file)
		if err != nil {
			return nil, fmt.Errorf("opening bundled spectrum %s: %w", file, err)
		}
		defer f.Close()
		return readDirectBeam(f, instOrPath)
	}

	f, err := os.Open(instOrPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a built-in instrument or a readable file",
			ErrResourceNotFound, instOrPath)
	}
	defer f.Close()
	return readDirectBeam(f, instOrPath)
}

// readDirectBeam parses a comma-delimited spectrum with columns
// (wavelength, flux[, monitor]). The monitor column, when present, is ignored.
func readDirectBeam(r io.Reader, name string) (*DirectBeamSpectrum, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	spectrum := &DirectBeamSpectrum{}
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading spectrum %s at row %d: %w", name, row, err)
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("%w: spectrum %s row %d has %d columns, want 2 or 3",
				ErrInvalidStructure, name, row, len(record))
		}
		wavelength, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: spectrum %s row %d: bad wavelength %q",
				ErrInvalidStructure, name, row, record[0])
		}
		flux, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: spectrum %s row %d: bad flux %q",
				ErrInvalidStructure, name, row, record[1])
		}
		spectrum.Wavelength = append(spectrum.Wavelength, wavelength)
		spectrum.Flux = append(spectrum.Flux, flux)
		row++
	}

	if err := validateSpectrum(spectrum, name); err != nil {
		return nil, err
	}
	return spectrum, nil
}

// validateSpectrum enforces strictly monotonic wavelengths with positive
// values, in either direction.
func validateSpectrum(s *DirectBeamSpectrum, name string) error {
	if s.Len() < 2 {
		return fmt.Errorf("%w: spectrum %s has %d points, want at least 2",
			ErrInvalidStructure, name, s.Len())
	}
	increasing := s.Wavelength[1] > s.Wavelength[0]
	for i := 0; i < s.Len(); i++ {
		if s.Wavelength[i] <= 0 {
			return fmt.Errorf("%w: spectrum %s row %d: non-positive wavelength %g",
				ErrInvalidStructure, name, i, s.Wavelength[i])
		}
		if i == 0 {
			continue
		}
		step := s.Wavelength[i] - s.Wavelength[i-1]
		if (increasing && step <= 0) || (!increasing && step >= 0) {
			return fmt.Errorf("%w: spectrum %s row %d: wavelengths not strictly monotonic",
				ErrInvalidStructure, name, i)
		}
	}
	return nil
}
