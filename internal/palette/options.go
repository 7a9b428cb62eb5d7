package palette

// DefaultColorCount is the palette size used when a count of zero is requested.
const DefaultColorCount = 5

// NeutralHex pads the fallback palette once the catalog is exhausted.
const NeutralHex = "#C2B39A"

// Options holds the tuning constants of the extraction pipeline.
//
// The defaults are empirical. Distances are plain RGB units and are squared
// internally. Zero fields fall back to the defaults.
type Options struct {
	// HistogramSamples is the approximate number of pixels bucketed.
	HistogramSamples int `json:"histogramSamples"`

	// BorderSamples is the approximate number of border pixels inspected
	// by the background estimator.
	BorderSamples int `json:"borderSamples"`

	// BorderTopBins is how many of the most frequent border bins are re-ranked.
	BorderTopBins int `json:"borderTopBins"`

	// GlobalWeight multiplies the whole-image count when re-ranking border bins.
	GlobalWeight int `json:"globalWeight"`

	// MinFilteredBins is the fewest bins background filtering may leave
	// before it is abandoned.
	MinFilteredBins int `json:"minFilteredBins"`

	MinFrequencyFloor    int     `json:"minFrequencyFloor"`
	MinFrequencyRatio    float64 `json:"minFrequencyRatio"`
	AccentSaturation     int     `json:"accentSaturation"`
	AccentCountRatio     float64 `json:"accentCountRatio"`
	SeedAccentSaturation int     `json:"seedAccentSaturation"`

	SeedSeparation    int `json:"seedSeparation"`
	MinSeparation     int `json:"minSeparation"`
	RelaxedSeparation int `json:"relaxedSeparation"`
	DedupSeparation   int `json:"dedupSeparation"`

	SaturationWeight float64 `json:"saturationWeight"`
	FrequencyBase    float64 `json:"frequencyBase"`
	FrequencyWeight  float64 `json:"frequencyWeight"`
}

var defaultOptions = Options{
	HistogramSamples:     35000,
	BorderSamples:        160,
	BorderTopBins:        10,
	GlobalWeight:         4,
	MinFilteredBins:      18,
	MinFrequencyFloor:    4,
	MinFrequencyRatio:    0.0008,
	AccentSaturation:     80,
	AccentCountRatio:     0.25,
	SeedAccentSaturation: 110,
	SeedSeparation:       25,
	MinSeparation:        28,
	RelaxedSeparation:    18,
	DedupSeparation:      10,
	SaturationWeight:     1.4,
	FrequencyBase:        0.6,
	FrequencyWeight:      0.6,
}

// DefaultOptions returns the default tuning.
func DefaultOptions() Options {
	return defaultOptions
}

// normalized fills zero fields with defaults and keeps the separation
// thresholds ordered: dedup <= relaxed <= minimum.
func (o Options) normalized() Options {
	n := o
	d := defaultOptions

	setInt := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}
	setFloat := func(v *float64, def float64) {
		if *v <= 0 {
			*v = def
		}
	}

	setInt(&n.HistogramSamples, d.HistogramSamples)
	setInt(&n.BorderSamples, d.BorderSamples)
	setInt(&n.BorderTopBins, d.BorderTopBins)
	setInt(&n.GlobalWeight, d.GlobalWeight)
	setInt(&n.MinFilteredBins, d.MinFilteredBins)
	setInt(&n.MinFrequencyFloor, d.MinFrequencyFloor)
	setFloat(&n.MinFrequencyRatio, d.MinFrequencyRatio)
	setInt(&n.AccentSaturation, d.AccentSaturation)
	setFloat(&n.AccentCountRatio, d.AccentCountRatio)
	setInt(&n.SeedAccentSaturation, d.SeedAccentSaturation)
	setInt(&n.SeedSeparation, d.SeedSeparation)
	setInt(&n.MinSeparation, d.MinSeparation)
	setInt(&n.RelaxedSeparation, d.RelaxedSeparation)
	setInt(&n.DedupSeparation, d.DedupSeparation)
	setFloat(&n.SaturationWeight, d.SaturationWeight)
	setFloat(&n.FrequencyBase, d.FrequencyBase)
	setFloat(&n.FrequencyWeight, d.FrequencyWeight)

	if n.RelaxedSeparation > n.MinSeparation {
		n.RelaxedSeparation = n.MinSeparation
	}
	if n.DedupSeparation > n.RelaxedSeparation {
		n.DedupSeparation = n.RelaxedSeparation
	}
	return n
}
