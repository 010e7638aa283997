package explorer

import (
	"fmt"
	"strconv"

	table "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kbeame/ihme-ui/choropleth"
	"github.com/kbeame/ihme-ui/projection"
)

// panStep is the translate delta per arrow press, in canvas pixels. One
// braille cell is 2 pixels wide and 4 tall, so 4 pixels is a whole cell
// vertically and half a cell-pair horizontally.
const panStep = 4

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.mapW, m.mapH = m.mapSize()
		m.apply(choropleth.Resized{Width: float64(m.mapW * 2), Height: float64(m.mapH * 4)})
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "+", "=":
			m.apply(choropleth.ZoomButtonPressed{Button: choropleth.ButtonZoomIn})
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoomFactor())
		case "-", "_":
			m.apply(choropleth.ZoomButtonPressed{Button: choropleth.ButtonZoomOut})
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoomFactor())
		case "r":
			m.apply(choropleth.ZoomButtonPressed{Button: choropleth.ButtonZoomReset})
			m.status = "view reset"
		case "up":
			m.pan(0, -panStep)
		case "down":
			m.pan(0, panStep)
		case "left":
			m.pan(-panStep, 0)
		case "right":
			m.pan(panStep, 0)
		case "c":
			m.centreOnSelection()
		case "a":
			m.showAttrs = !m.showAttrs
			if m.showAttrs {
				m.refreshAttrs()
			}
		case "h":
			m.helpVisible = !m.helpVisible
		case "enter":
			if m.showAttrs {
				break
			}
			if key, ok := m.featureAt(float64(m.mapW), float64(m.mapH*2)); ok {
				m.toggleSelection(key)
			} else {
				m.status = "no region at centre"
			}
		default:
			if s := msg.String(); len(s) == 1 && s >= "1" && s <= "9" {
				m.toggleLayer(int(s[0] - '1'))
			}
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			cx, cy := msg.X, msg.Y-headerHeight
			if cx >= 0 && cx < m.mapW && cy >= 0 && cy < m.mapH && !m.showAttrs {
				px := (float64(cx) + 0.5) * 2
				py := (float64(cy) + 0.5) * 4
				if key, ok := m.featureAt(px, py); ok {
					m.toggleSelection(key)
				}
			}
		}
	}

	if m.showAttrs {
		var cmd tea.Cmd
		m.tbl, cmd = m.tbl.Update(msg)
		return m, cmd
	}
	return m, nil
}

// apply routes an event through the component, surfacing reducer errors on
// the status line.
func (m *Model) apply(ev choropleth.Event) {
	if err := m.component.Apply(ev); err != nil {
		m.status = err.Error()
	}
}

// pan shifts the view transform by a translate delta, keeping the scale.
func (m *Model) pan(dx, dy float64) {
	t := m.component.Translate()
	m.apply(choropleth.GestureMoved{
		Scale:     m.component.Scale(),
		Translate: [2]float64{t[0] + dx, t[1] + dy},
	})
}

// toggleLayer flips the visibility of the layer at the given index.
func (m *Model) toggleLayer(idx int) {
	if idx < 0 || idx >= len(m.layers) {
		return
	}
	m.layers[idx].Visible = !m.layers[idx].Visible
	m.apply(choropleth.LayersChanged{Layers: m.layers})
	m.status = fmt.Sprintf("layer %s: %v", m.layers[idx].Name, m.layers[idx].Visible)
	if m.showAttrs {
		m.refreshAttrs()
	}
}

// centreOnSelection moves the view so the most recently selected region sits
// at the viewport centre, keeping the current zoom level.
func (m *Model) centreOnSelection() {
	if len(m.selected) == 0 {
		m.status = "nothing selected"
		return
	}
	key := m.selected[len(m.selected)-1]
	centre, ok := m.featureCentre(key)
	if !ok {
		m.status = fmt.Sprintf("no geometry for %s", key)
		return
	}
	w, h := m.component.Viewport()
	scale := m.component.Scale()
	m.apply(choropleth.GestureMoved{
		Scale:     scale,
		Translate: projection.FocusTranslate(w, h, scale, centre),
	})
	m.status = fmt.Sprintf("centred on %s", key)
}

// toggleSelection adds or removes a location key from the selection and
// hands the new set to the component.
func (m *Model) toggleSelection(key string) {
	keys := make([]string, 0, len(m.selected)+1)
	removed := false
	for _, k := range m.selected {
		if k == key {
			removed = true
			continue
		}
		keys = append(keys, k)
	}
	if !removed {
		keys = append(keys, key)
	}
	m.selected = keys
	m.apply(choropleth.SelectionChanged{SelectedKeys: keys})

	verb := "selected"
	if removed {
		verb = "deselected"
	}
	if v, ok := m.component.Value(key); ok {
		m.status = fmt.Sprintf("%s %s (%g)", verb, key, v)
	} else {
		m.status = fmt.Sprintf("%s %s (no data)", verb, key)
	}
}

// refreshAttrs rebuilds the attribute table from the component's current
// layers, join and selection.
func (m *Model) refreshAttrs() {
	c := m.component
	nameProp := ""
	if m.request.Geography != nil {
		nameProp = m.request.Geography.NameProperty
	}

	cols := []table.Column{
		{Title: "key", Width: 12},
		{Title: "name", Width: 24},
		{Title: "value", Width: 10},
		{Title: "fill", Width: 9},
		{Title: "sel", Width: 3},
	}
	var rows []table.Row
	for _, rl := range c.RenderLayers() {
		if rl.Features == nil {
			continue
		}
		for _, f := range rl.Features.Features {
			key, ok := c.FeatureKey(f)
			if !ok {
				continue
			}
			name := ""
			if nameProp != "" {
				if v, found := f.Properties[nameProp]; found {
					name = fmt.Sprintf("%v", v)
				}
			}
			value := "-"
			if v, okv := c.Value(key); okv {
				value = strconv.FormatFloat(v, 'g', -1, 64)
			}
			fill, _ := c.Fill(key)
			sel := ""
			if c.Selected(key) {
				sel = "*"
			}
			rows = append(rows, table.Row{key, name, value, fill, sel})
		}
	}

	// Clear rows before swapping columns to avoid a transient mismatch.
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
}
