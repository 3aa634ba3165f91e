package main

import (
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/programme-lv/judgetrack/conf"
	"github.com/programme-lv/judgetrack/http"
	"github.com/programme-lv/judgetrack/judgeapi"
	"github.com/programme-lv/judgetrack/tracksrvc"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		panic("Error loading .env file")
	}

	apiUrl := conf.GetJudgeApiUrlFromEnv()
	wsUrl := conf.GetJudgeWsUrlFromEnv()
	apiKey := conf.GetJudgeApiKeyFromEnv()

	logger := slog.Default().With("module", "judgeapi")
	client := judgeapi.NewClient(logger, apiUrl, apiKey)
	dial := judgeapi.NewDialer(wsUrl, apiKey)

	tracker := tracksrvc.NewTrackSrvc(client, dial,
		func(jobId string, res tracksrvc.JobResult) {
			if res.Judge != nil {
				slog.Info("job progress",
					"job_id", jobId,
					"status", res.Judge.Status,
					"score", res.Judge.Score,
					"terminal", res.IsTerminal())
				return
			}
			slog.Info("job progress",
				"job_id", jobId,
				"terminal", res.IsTerminal())
		})
	defer tracker.Stop()

	httpServer := http.NewHttpServer(tracker)

	address := ":8080"
	log.Printf("Starting server on %s", address)
	err = httpServer.Start(address)
	log.Printf("Server stopped with error: %v", err)
}
