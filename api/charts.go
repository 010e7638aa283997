package api

import (
	"errors"
	"net/http"

	"github.com/ONSdigital/go-ns/log"
	"github.com/gorilla/mux"
	"github.com/kbeame/ihme-ui/chart"
	"github.com/kbeame/ihme-ui/models"
)

func (api *RendererAPI) renderChart(w http.ResponseWriter, r *http.Request) {
	chartType := mux.Vars(r)["chart_type"]
	log.Debug("renderChart", log.Data{"headers": r.Header})

	request, err := models.CreateChartRequest(r.Body)
	if err != nil {
		badRequest(w, err)
		return
	}
	if err := request.ValidateChartRequest(); err != nil {
		badRequest(w, err)
		return
	}

	var svg string
	switch chartType {
	case "line":
		svg, err = chart.RenderLine(request)
	case "area":
		svg, err = chart.RenderArea(request)
	default:
		log.Error(errors.New("unknown chart type"), log.Data{"chart_type": chartType})
		http.Error(w, unknownChartType, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error(err, nil)
		writeError(w, err)
		return
	}

	writeResponse(w, contentSVG, []byte(svg))
}
