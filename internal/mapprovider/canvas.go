package mapprovider

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/pkordes/trip-planner/internal/domain"
)

// markerColors maps node types to AMap static-map colors.
var markerColors = map[domain.NodeType]string{
	domain.NodeAttraction: "0xFF6B6B",
	domain.NodeFood:       "0xFFA94D",
	domain.NodeHotel:      "0x748FFC",
	domain.NodeShopping:   "0xDA77F2",
	domain.NodeOther:      "0x868E96",
}

const (
	pathColor = "0x0091FF"
	// Static-map marker labels are a single character. A marker shows its
	// stop number within its day; orders past Z wrap around.
	markerLabels = "123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// StaticCanvas is a Renderer that accumulates markers and paths and turns
// them into an AMap static-map image URL. Clicks are delivered by calling
// Click with the coordinate the user picked on the image.
type StaticCanvas struct {
	baseURL string
	key     string
	size    string

	mu      sync.Mutex
	markers []Marker
	paths   [][]domain.Location
	clicks  []ClickFunc
}

func newStaticCanvas(baseURL, key string) *StaticCanvas {
	return &StaticCanvas{baseURL: baseURL, key: key, size: "750*500"}
}

// RenderMarkers adds markers to the canvas.
func (c *StaticCanvas) RenderMarkers(markers []Marker) error {
	for _, m := range markers {
		if err := validLocation(m.Location); err != nil {
			return fmt.Errorf("marker %q: %w", m.Label, err)
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.markers = append(c.markers, markers...)
	return nil
}

// RenderPath adds a polyline through points. A path needs two points.
func (c *StaticCanvas) RenderPath(points []domain.Location) error {
	if len(points) < 2 {
		return fmt.Errorf("%w: a path needs at least two points", domain.ErrValidation)
	}
	for _, p := range points {
		if err := validLocation(p); err != nil {
			return err
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, append([]domain.Location(nil), points...))
	return nil
}

// OnClick registers fn to receive clicks.
func (c *StaticCanvas) OnClick(fn ClickFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clicks = append(c.clicks, fn)
}

// Click delivers a click at loc to every registered callback, in
// registration order.
func (c *StaticCanvas) Click(loc domain.Location) error {
	if err := validLocation(loc); err != nil {
		return err
	}
	c.mu.Lock()
	fns := append([]ClickFunc(nil), c.clicks...)
	c.mu.Unlock()

	for _, fn := range fns {
		fn(loc)
	}
	return nil
}

// URL returns the static-map image URL for everything rendered so far, or
// "" when no key is configured or nothing was rendered.
func (c *StaticCanvas) URL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.key == "" || (len(c.markers) == 0 && len(c.paths) == 0) {
		return ""
	}

	q := url.Values{}
	q.Set("key", c.key)
	q.Set("size", c.size)
	if len(c.markers) > 0 {
		q.Set("markers", c.markerParam())
	}
	if len(c.paths) > 0 {
		q.Set("paths", c.pathParam())
	}
	return c.baseURL + "/v3/staticmap?" + q.Encode()
}

// markerParam groups markers by style: "mid,color,label:lng,lat|...".
func (c *StaticCanvas) markerParam() string {
	groups := make([]string, 0, len(c.markers))
	for _, m := range c.markers {
		color, ok := markerColors[m.Category]
		if !ok {
			color = markerColors[domain.NodeOther]
		}
		label := markerLabel(m.Order)
		groups = append(groups, fmt.Sprintf("mid,%s,%s:%s", color, label, formatLngLat(m.Location)))
	}
	return strings.Join(groups, "|")
}

func markerLabel(order int) string {
	if order < 1 {
		return "0"
	}
	return string(markerLabels[(order-1)%len(markerLabels)])
}

// pathParam encodes polylines: "weight,color,transparency,,:lng,lat;lng,lat|...".
func (c *StaticCanvas) pathParam() string {
	groups := make([]string, 0, len(c.paths))
	for _, p := range c.paths {
		points := make([]string, len(p))
		for i, l := range p {
			points[i] = formatLngLat(l)
		}
		groups = append(groups, fmt.Sprintf("6,%s,1,,:%s", pathColor, strings.Join(points, ";")))
	}
	return strings.Join(groups, "|")
}
