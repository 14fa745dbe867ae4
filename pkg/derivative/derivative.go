package derivative

// Asset is a single file that makes up a derivative.
type Asset struct {
	URI       string `yaml:"uri" toml:"uri"`
	Type      string `yaml:"type" toml:"type"` // model, geometry, image, texture
	ByteSize  int64  `yaml:"byte_size,omitempty" toml:"byte_size,omitempty"`
	ImageSize int    `yaml:"image_size,omitempty" toml:"image_size,omitempty"` // edge length in pixels
	NumFaces  int    `yaml:"num_faces,omitempty" toml:"num_faces,omitempty"`
}

// Derivative is one variant of a model for a usage at a quality.
type Derivative struct {
	Usage   Usage   `yaml:"usage" toml:"usage"`
	Quality Quality `yaml:"quality" toml:"quality"`
	Assets  []Asset `yaml:"assets,omitempty" toml:"assets,omitempty"`
}

// ImageSize returns the largest image edge among the derivative's texture
// assets, or 0 if it has none.
func (d *Derivative) ImageSize() int {
	size := 0
	for _, a := range d.Assets {
		if a.ImageSize > size {
			size = a.ImageSize
		}
	}
	return size
}

// ByteSize returns the total size of all assets.
func (d *Derivative) ByteSize() int64 {
	var total int64
	for _, a := range d.Assets {
		total += a.ByteSize
	}
	return total
}

// List holds the derivatives available for one model.
type List struct {
	items []*Derivative
}

// NewList returns a list holding the given derivatives.
func NewList(ds ...*Derivative) *List {
	l := &List{}
	for _, d := range ds {
		l.Add(d)
	}
	return l
}

// Add appends a derivative. A derivative with the same usage and quality
// as an existing one replaces it.
func (l *List) Add(d *Derivative) {
	for i, e := range l.items {
		if e.Usage == d.Usage && e.Quality == d.Quality {
			l.items[i] = d
			return
		}
	}
	l.items = append(l.items, d)
}

// Len returns the number of derivatives.
func (l *List) Len() int {
	return len(l.items)
}

// All returns every derivative in insertion order.
func (l *List) All() []*Derivative {
	return l.items
}

// ByUsage returns the derivatives for one usage.
func (l *List) ByUsage(usage Usage) []*Derivative {
	var out []*Derivative
	for _, d := range l.items {
		if d.Usage == usage {
			out = append(out, d)
		}
	}
	return out
}

// Get returns the derivative with exactly the given usage and quality.
func (l *List) Get(usage Usage, quality Quality) *Derivative {
	for _, d := range l.items {
		if d.Usage == usage && d.Quality == quality {
			return d
		}
	}
	return nil
}

// Qualities returns the qualities available for a usage, lowest first.
func (l *List) Qualities(usage Usage) []Quality {
	var out []Quality
	for q := Thumb; q <= AR; q++ {
		if l.Get(usage, q) != nil {
			out = append(out, q)
		}
	}
	return out
}

// Select returns the best derivative for usage at quality: the exact match
// if present, otherwise the nearest lower quality on the ladder, otherwise
// the nearest higher one. It returns nil when the usage has no derivatives
// on the ladder.
func (l *List) Select(usage Usage, quality Quality) *Derivative {
	if d := l.Get(usage, quality); d != nil {
		return d
	}
	if quality > Highest {
		quality = Highest
		if d := l.Get(usage, quality); d != nil {
			return d
		}
	}
	for q := quality - 1; q >= Lowest; q-- {
		if d := l.Get(usage, q); d != nil {
			return d
		}
	}
	for q := quality + 1; q <= Highest; q++ {
		if d := l.Get(usage, q); d != nil {
			return d
		}
	}
	return nil
}
