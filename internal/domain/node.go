package domain

import (
	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// Node is one visit or stop scheduled on a specific day of a trip.
// Order is the 1-based position within (trip, day); it is only renumbered to
// a contiguous range by a reorder, never by a delete.
type Node struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      NodeType  `json:"type"`
	Location  Location  `json:"location"`
	Day       int       `json:"day"`
	Order     int       `json:"order"`
	StartTime string    `json:"startTime,omitempty"` // "15:04"
	Duration  *int      `json:"duration,omitempty"`  // minutes
	Cost      *float64  `json:"cost,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Images    []string  `json:"images,omitempty"`
}

// Clone returns a deep copy of n.
func (n Node) Clone() Node {
	out := n
	if n.Duration != nil {
		d := *n.Duration
		out.Duration = &d
	}
	if n.Cost != nil {
		c := *n.Cost
		out.Cost = &c
	}
	if n.Images != nil {
		out.Images = append([]string(nil), n.Images...)
	}
	return out
}

// NodeType is the closed set of node categories.
type NodeType string

const (
	NodeAttraction NodeType = "attraction"
	NodeFood       NodeType = "food"
	NodeHotel      NodeType = "hotel"
	NodeShopping   NodeType = "shopping"
	NodeOther      NodeType = "other"
)

// NodeTypes lists every node type in display order.
var NodeTypes = []NodeType{NodeAttraction, NodeFood, NodeHotel, NodeShopping, NodeOther}

// Valid reports whether t is one of the known node types.
func (t NodeType) Valid() bool {
	_, ok := nodeTypeCatalogue[t]
	return ok
}

// NodeTypeInfo is the presentation metadata attached to a node type.
type NodeTypeInfo struct {
	Type  NodeType `json:"type"`
	Label string   `json:"label"`
	Icon  string   `json:"icon"`
	Color string   `json:"color"`
}

// TransportModeInfo is the presentation metadata attached to a transport mode.
type TransportModeInfo struct {
	Mode  TransportMode `json:"mode"`
	Label string        `json:"label"`
	Icon  string        `json:"icon"`
}

type catalogueEntry struct {
	labels map[language.Tag]string
	icon   string
	color  string
}

var nodeTypeCatalogue = map[NodeType]catalogueEntry{
	NodeAttraction: {labels: labels("Attraction", "景点"), icon: "🏞️", color: "node-attraction"},
	NodeFood:       {labels: labels("Food", "美食"), icon: "🍜", color: "node-food"},
	NodeHotel:      {labels: labels("Hotel", "住宿"), icon: "🏨", color: "node-hotel"},
	NodeShopping:   {labels: labels("Shopping", "购物"), icon: "🛍️", color: "node-shopping"},
	NodeOther:      {labels: labels("Other", "其他"), icon: "📍", color: "node-other"},
}

var transportModeCatalogue = map[TransportMode]catalogueEntry{
	ModeWalking: {labels: labels("Walking", "步行"), icon: "🚶"},
	ModeDriving: {labels: labels("Driving", "驾车"), icon: "🚗"},
	ModeTransit: {labels: labels("Transit", "公交"), icon: "🚌"},
}

// LabelLanguages are the languages labels are available in. The first entry
// is the fallback.
var LabelLanguages = []language.Tag{language.English, language.SimplifiedChinese}

var labelMatcher = language.NewMatcher(LabelLanguages)

func labels(en, zh string) map[language.Tag]string {
	return map[language.Tag]string{language.English: en, language.SimplifiedChinese: zh}
}

// MatchLabelLanguage picks the best supported label language for an
// Accept-Language header value. Unparsable or empty input yields English.
func MatchLabelLanguage(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return LabelLanguages[0]
	}
	_, idx, _ := labelMatcher.Match(tags...)
	return LabelLanguages[idx]
}

// Info returns the presentation metadata for t in the given language.
// Unknown types are described as NodeOther.
func (t NodeType) Info(lang language.Tag) NodeTypeInfo {
	e, ok := nodeTypeCatalogue[t]
	if !ok {
		t, e = NodeOther, nodeTypeCatalogue[NodeOther]
	}
	return NodeTypeInfo{Type: t, Label: e.label(lang), Icon: e.icon, Color: e.color}
}

// Info returns the presentation metadata for m in the given language.
func (m TransportMode) Info(lang language.Tag) TransportModeInfo {
	e := transportModeCatalogue[m]
	return TransportModeInfo{Mode: m, Label: e.label(lang), Icon: e.icon}
}

func (e catalogueEntry) label(lang language.Tag) string {
	if l, ok := e.labels[lang]; ok {
		return l
	}
	return e.labels[LabelLanguages[0]]
}
