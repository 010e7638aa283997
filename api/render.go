package api

import (
	"errors"
	"net/http"

	"github.com/ONSdigital/go-ns/log"
	"github.com/gorilla/mux"
	"github.com/kbeame/ihme-ui/chart"
	"github.com/kbeame/ihme-ui/models"
	"github.com/kbeame/ihme-ui/renderer"
)

// response content types
const (
	contentSVG  = "image/svg+xml"
	contentHTML = "text/html"
	contentPNG  = "image/png"
	contentJSON = "application/json"
)

// user-facing error responses
const (
	internalError     = "Failed to process the request due to an internal error"
	unknownRenderType = "Unknown render type"
	unknownChartType  = "Unknown chart type"
)

func (api *RendererAPI) renderMap(w http.ResponseWriter, r *http.Request) {
	renderType := mux.Vars(r)["render_type"]
	log.Debug("renderMap", log.Data{"headers": r.Header})

	request, err := models.CreateRenderRequest(r.Body)
	if err != nil {
		badRequest(w, err)
		return
	}
	if err := request.ValidateRenderRequest(); err != nil {
		badRequest(w, err)
		return
	}
	api.applyDefaults(request)

	svgRequest, err := renderer.PrepareSVGRequest(request)
	if err != nil {
		log.Error(err, log.Data{"filename": request.Filename})
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var body []byte
	contentType := contentSVG
	switch renderType {
	case "svg":
		svg := renderer.RenderSVG(svgRequest)
		if svg == "" {
			err = renderer.ErrNoGeometry
		}
		body = []byte(svg)
	case "html":
		body, err = renderer.RenderHTML(svgRequest)
		contentType = contentHTML
	case "png":
		body, err = renderer.RenderPNG(svgRequest)
		contentType = contentPNG
	default:
		log.Error(errors.New("unknown render type"), log.Data{"render_type": renderType})
		http.Error(w, unknownRenderType, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error(err, log.Data{"filename": request.Filename})
		writeError(w, err)
		return
	}

	writeResponse(w, contentType, body)
}

// applyDefaults fills in the server-configured width and zoom step on
// requests that leave them unset.
func (api *RendererAPI) applyDefaults(request *models.RenderRequest) {
	if request.Width <= 0 {
		request.Width = api.defaults.Width
	}
	if request.ZoomStep <= 0 {
		request.ZoomStep = api.defaults.ZoomStep
	}
}

// badRequest reports a request body that could not be decoded or validated.
func badRequest(w http.ResponseWriter, err error) {
	log.Error(err, nil)
	http.Error(w, err.Error(), http.StatusBadRequest)
}

// writeResponse sends a successful response, reporting any write failure
// through the sentinel error table.
func writeResponse(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error(err, nil)
		writeError(w, err)
	}
}

// writeError distinguishes errors the client can fix from everything else,
// which is reported as an internal error without detail.
func writeError(w http.ResponseWriter, err error) {
	switch err {
	case renderer.ErrNoGeometry, chart.ErrNoSeries:
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, internalError, http.StatusInternalServerError)
	}
}
