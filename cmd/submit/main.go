package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/programme-lv/judgetrack/conf"
	"github.com/programme-lv/judgetrack/judgeapi"
	"github.com/programme-lv/judgetrack/probcat"
	"github.com/programme-lv/judgetrack/tracksrvc"
)

// Submits a single source file for judging and prints progress
// updates until the terminal verdict arrives.
func main() {
	problemId := flag.String("problem", "", "remote problem id")
	langId := flag.String("lang", "", "programming language id")
	enableO2 := flag.Bool("o2", false, "request -O2 compilation")
	timeout := flag.Duration("timeout", 5*time.Minute, "give up after this long")
	flag.Parse()

	if flag.NArg() != 1 || *problemId == "" || *langId == "" {
		fmt.Fprintln(os.Stderr, "usage: submit -problem <id> -lang <id> [-o2] <source file>")
		os.Exit(2)
	}

	err := godotenv.Load()
	if err != nil {
		panic("Error loading .env file")
	}

	src, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read source file: %v\n", err)
		os.Exit(1)
	}

	apiUrl := conf.GetJudgeApiUrlFromEnv()
	wsUrl := conf.GetJudgeWsUrlFromEnv()
	apiKey := conf.GetJudgeApiKeyFromEnv()
	catalogUrl := conf.GetProblemCatalogUrlFromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	catalog := probcat.NewCatalog(slog.Default(), catalogUrl)
	problem, found, err := catalog.ById(ctx, *problemId)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to fetch problem catalog: %v\n", err)
		os.Exit(1)
	}
	if !found {
		fmt.Fprintf(os.Stderr, "problem %s not found in catalog\n", *problemId)
		os.Exit(1)
	}
	fmt.Printf("submitting to %q (difficulty %d)\n", problem.Title, problem.Difficulty)

	done := make(chan tracksrvc.JobResult, 1)
	client := judgeapi.NewClient(slog.Default(), apiUrl, apiKey)
	tracker := tracksrvc.NewTrackSrvc(client, judgeapi.NewDialer(wsUrl, apiKey),
		func(jobId string, res tracksrvc.JobResult) {
			printProgress(res)
			if res.IsTerminal() {
				select {
				case done <- res:
				default:
				}
			}
		})
	defer tracker.Stop()

	jobId, err := tracker.Submit(ctx, tracksrvc.Request{
		ProblemId: *problemId,
		SrcCode:   string(src),
		LangId:    *langId,
		EnableO2:  *enableO2,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "submit failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("submitted, tracking as %s\n", jobId)

	select {
	case res := <-done:
		if res.Judge != nil && res.Judge.Status == tracksrvc.Accepted {
			os.Exit(0)
		}
		os.Exit(1)
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "timed out waiting for verdict")
		os.Exit(1)
	}
}

func printProgress(res tracksrvc.JobResult) {
	if res.Compile != nil && !res.Compile.Success {
		fmt.Printf("compile error:\n%s\n", res.Compile.Message)
		return
	}
	if res.Judge == nil {
		fmt.Println("received")
		return
	}
	fmt.Printf("%-4s score %3d  %5d ms  %6d KiB\n",
		res.Judge.Status,
		res.Judge.Score,
		res.Judge.CpuMs,
		res.Judge.MemKiB)
	for i, st := range res.Judge.Subtasks {
		fmt.Printf("  subtask %d: %-4s score %3d\n", i+1, st.Status, st.Score)
	}
}
