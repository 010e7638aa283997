// Package explorer is a terminal host for the choropleth component, built
// on bubbletea. It drives the same event reducer the server-side renderer
// uses, drawing the map into a braille canvas instead of an svg document.
package explorer

import (
	table "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kbeame/ihme-ui/choropleth"
	"github.com/kbeame/ihme-ui/models"
	"github.com/kbeame/ihme-ui/renderer"
)

const (
	headerHeight = 1
	footerHeight = 2

	// initialCanvasWidth sizes the component before the first WindowSizeMsg
	// arrives. The zoom extent is fixed from the construction-time base
	// scale, so the request is prepared at terminal-canvas scale rather
	// than the svg default width.
	initialCanvasWidth = 160
)

// Model is the bubbletea host around a choropleth component. The component
// owns the map state; the model owns terminal concerns: layout, key
// bindings, the attribute table and the status line.
type Model struct {
	width  int
	height int

	component *choropleth.Component
	request   *models.RenderRequest
	layers    []choropleth.Layer
	selected  []string

	helpVisible bool
	showAttrs   bool
	tbl         table.Model

	status string

	// map canvas size in cells
	mapW int
	mapH int
}

// New builds a model for the given render request. The request is prepared
// the same way the http renderer prepares it, so saved view state and layer
// specs behave identically in both hosts.
func New(request *models.RenderRequest) (Model, error) {
	prepared := *request
	prepared.Width = initialCanvasWidth
	prepared.Height = 0

	svgRequest, err := renderer.PrepareSVGRequest(&prepared)
	if err != nil {
		return Model{}, err
	}

	m := Model{
		component:   svgRequest.Component(),
		request:     &prepared,
		layers:      renderer.ComponentLayers(&prepared),
		selected:    append([]string(nil), prepared.SelectedKeys...),
		helpVisible: true,
		status:      "choropleth explorer ready",
	}
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	return m, nil
}

func (m Model) Init() tea.Cmd { return nil }

// mapSize returns the map canvas size in cells for the current terminal.
func (m Model) mapSize() (int, int) {
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 4 {
		contentHeight = 4
	}
	contentWidth := m.width
	if contentWidth < 10 {
		contentWidth = 10
	}
	return contentWidth, contentHeight
}

// zoomFactor is the relative zoom over the fitted base scale.
func (m Model) zoomFactor() float64 {
	if m.component.ScaleBase() == 0 {
		return 1
	}
	return m.component.Scale() / m.component.ScaleBase()
}
