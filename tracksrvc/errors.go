package tracksrvc

import (
	"net/http"

	"github.com/programme-lv/judgetrack/srvcerror"
)

const ErrCodeEmptyProblemId = "empty_problem_id"

func ErrEmptyProblemId() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeEmptyProblemId,
		"Problem id is empty",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeEmptySourceCode = "empty_source_code"

func ErrEmptySourceCode() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeEmptySourceCode,
		"Source code is empty",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeSourceCodeTooLarge = "source_code_too_large"

func ErrSourceCodeTooLarge() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeSourceCodeTooLarge,
		"Source code too large",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeEmptyLangId = "empty_lang_id"

func ErrEmptyLangId() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeEmptyLangId,
		"Programming language id is empty",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeJobNotFound = "job_not_found"

func ErrJobNotFound() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeJobNotFound,
		"Job not found",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeTrackerStopped = "tracker_stopped"

func ErrTrackerStopped() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeTrackerStopped,
		"Job tracker has been stopped",
	).SetHttpStatusCode(http.StatusServiceUnavailable)
}
