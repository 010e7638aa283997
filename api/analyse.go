package api

import (
	"encoding/json"
	"net/http"

	"github.com/ONSdigital/go-ns/log"
	"github.com/kbeame/ihme-ui/analyser"
	"github.com/kbeame/ihme-ui/models"
)

func (api *RendererAPI) analyse(w http.ResponseWriter, r *http.Request) {
	log.Debug("analyse", log.Data{"headers": r.Header})

	request, err := models.CreateAnalyseRequest(r.Body)
	if err != nil {
		badRequest(w, err)
		return
	}
	if err := request.ValidateAnalyseRequest(); err != nil {
		badRequest(w, err)
		return
	}

	response, err := analyser.AnalyseData(request)
	if err != nil {
		badRequest(w, err)
		return
	}

	body, err := json.Marshal(response)
	if err != nil {
		log.Error(err, nil)
		writeError(w, err)
		return
	}

	writeResponse(w, contentJSON, body)
}
