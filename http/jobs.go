package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/programme-lv/judgetrack/httpjson"
	"github.com/programme-lv/judgetrack/logger"
	"github.com/programme-lv/judgetrack/tracksrvc"
)

type submitJobRequest struct {
	ProblemId string `json:"problem_id"`
	SrcCode   string `json:"code"`
	LangId    string `json:"lang"`
	EnableO2  bool   `json:"o2"`
}

type submitJobResponse struct {
	JobId string `json:"job_id"`
}

func (httpserver *HttpServer) submitJob(w http.ResponseWriter, r *http.Request) {
	var req submitJobRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		httpjson.WriteErrorJson(w, "invalid request body",
			http.StatusBadRequest, "invalid_request_body")
		return
	}

	jobId, err := httpserver.tracker.Submit(r.Context(), tracksrvc.Request{
		ProblemId: req.ProblemId,
		SrcCode:   req.SrcCode,
		LangId:    req.LangId,
		EnableO2:  req.EnableO2,
	})
	if err != nil {
		httpjson.HandleError(logger.FromContext(r.Context()), w, err)
		return
	}

	httpjson.WriteSuccessJson(w, submitJobResponse{JobId: jobId})
}

type listJobsResponse struct {
	InFlight []string `json:"in_flight"`
}

func (httpserver *HttpServer) listJobs(w http.ResponseWriter, r *http.Request) {
	ids := httpserver.tracker.InFlight()
	httpjson.WriteSuccessJson(w, listJobsResponse{InFlight: ids})
}

type getJobResponse struct {
	JobId    string               `json:"job_id"`
	InFlight bool                 `json:"in_flight"`
	Result   *tracksrvc.JobResult `json:"result,omitempty"`
}

func (httpserver *HttpServer) getJob(w http.ResponseWriter, r *http.Request) {
	jobId := chi.URLParam(r, "jobId")

	res, err := httpserver.tracker.Result(jobId)
	if err == nil {
		httpjson.WriteSuccessJson(w, getJobResponse{
			JobId:  jobId,
			Result: &res,
		})
		return
	}

	if httpserver.tracker.IsInFlight(jobId) {
		httpjson.WriteSuccessJson(w, getJobResponse{
			JobId:    jobId,
			InFlight: true,
		})
		return
	}

	httpjson.HandleError(logger.FromContext(r.Context()), w, tracksrvc.ErrJobNotFound())
}
