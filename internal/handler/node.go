package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
)

// NodeRequest is the body of POST /current-trip/nodes and
// PUT /current-trip/nodes/{nodeId}. An order of 0 on add appends the node
// to the end of its day.
type NodeRequest struct {
	Name      string          `json:"name"`
	Type      domain.NodeType `json:"type"`
	Location  domain.Location `json:"location"`
	Day       int             `json:"day"`
	Order     int             `json:"order"`
	StartTime string          `json:"startTime,omitempty"`
	Duration  *int            `json:"duration,omitempty"`
	Cost      *float64        `json:"cost,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	Images    []string        `json:"images,omitempty"`
}

// NodeList carries a whole node collection, both as the body of
// PUT /current-trip/nodes and as the response of the reorder endpoints.
type NodeList struct {
	Nodes []domain.Node `json:"nodes"`
}

// DayOrderRequest is the body of PUT /current-trip/days/{day}/order: every
// node id of that day, in the new order.
type DayOrderRequest struct {
	NodeIDs []uuid.UUID `json:"nodeIds"`
}

// RouteList is the body and response of PUT /current-trip/routes.
type RouteList struct {
	Routes []domain.RouteSegment `json:"routes"`
}

// AddNode handles POST /current-trip/nodes.
func (s *Server) AddNode(w http.ResponseWriter, r *http.Request) {
	var body NodeRequest
	if !decodeBody(w, r, &body) {
		return
	}

	created, err := s.nodes.Add(r.Context(), body.toNode(uuid.Nil))
	if err != nil {
		writeError(w, err, "node not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateNode handles PUT /current-trip/nodes/{nodeId}.
func (s *Server) UpdateNode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "nodeId")
	if !ok {
		return
	}
	var body NodeRequest
	if !decodeBody(w, r, &body) {
		return
	}

	updated, err := s.nodes.Update(r.Context(), body.toNode(id))
	if err != nil {
		writeError(w, err, "node not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteNode handles DELETE /current-trip/nodes/{nodeId}.
// The remaining nodes of the day keep their order values.
func (s *Server) DeleteNode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "nodeId")
	if !ok {
		return
	}

	if err := s.nodes.Delete(r.Context(), id); err != nil {
		writeError(w, err, "node not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReorderNodes handles PUT /current-trip/nodes, replacing the current trip's
// node collection wholesale.
func (s *Server) ReorderNodes(w http.ResponseWriter, r *http.Request) {
	var body NodeList
	if !decodeBody(w, r, &body) {
		return
	}

	nodes, err := s.nodes.Reorder(r.Context(), body.Nodes)
	if err != nil {
		writeError(w, err, "node not found")
		return
	}
	writeJSON(w, http.StatusOK, NodeList{Nodes: nodes})
}

// ReorderDay handles PUT /current-trip/days/{day}/order.
func (s *Server) ReorderDay(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil {
		badRequest(w, "invalid day")
		return
	}
	var body DayOrderRequest
	if !decodeBody(w, r, &body) {
		return
	}

	nodes, err := s.nodes.ReorderDay(r.Context(), day, body.NodeIDs)
	if err != nil {
		writeError(w, err, "node not found")
		return
	}
	writeJSON(w, http.StatusOK, NodeList{Nodes: nodes})
}

// SetRoutes handles PUT /current-trip/routes.
func (s *Server) SetRoutes(w http.ResponseWriter, r *http.Request) {
	var body RouteList
	if !decodeBody(w, r, &body) {
		return
	}

	routes, err := s.nodes.SetRoutes(r.Context(), body.Routes)
	if err != nil {
		writeError(w, err, "node not found")
		return
	}
	writeJSON(w, http.StatusOK, RouteList{Routes: routes})
}

// NodeTypeCatalogue is the body of GET /node-types.
type NodeTypeCatalogue struct {
	Language       string                     `json:"language"`
	NodeTypes      []domain.NodeTypeInfo      `json:"nodeTypes"`
	TransportModes []domain.TransportModeInfo `json:"transportModes"`
}

// ListNodeTypes handles GET /node-types. Labels follow the Accept-Language
// header, falling back to English.
func (s *Server) ListNodeTypes(w http.ResponseWriter, r *http.Request) {
	lang := domain.MatchLabelLanguage(r.Header.Get("Accept-Language"))

	out := NodeTypeCatalogue{
		Language:       lang.String(),
		NodeTypes:      make([]domain.NodeTypeInfo, len(domain.NodeTypes)),
		TransportModes: make([]domain.TransportModeInfo, len(domain.TransportModes)),
	}
	for i, t := range domain.NodeTypes {
		out.NodeTypes[i] = t.Info(lang)
	}
	for i, m := range domain.TransportModes {
		out.TransportModes[i] = m.Info(lang)
	}
	writeJSON(w, http.StatusOK, out)
}

func (b NodeRequest) toNode(id uuid.UUID) domain.Node {
	return domain.Node{
		ID:        id,
		Name:      b.Name,
		Type:      b.Type,
		Location:  b.Location,
		Day:       b.Day,
		Order:     b.Order,
		StartTime: b.StartTime,
		Duration:  b.Duration,
		Cost:      b.Cost,
		Notes:     b.Notes,
		Images:    b.Images,
	}
}
