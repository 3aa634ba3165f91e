package conf

import "os"

// Remote judge endpoint configuration. All getters panic on
// absence because the tracker cannot operate without them;
// commands load a .env file before calling these.

func GetJudgeApiUrlFromEnv() string {
	apiUrl := os.Getenv("JUDGE_API_URL")
	if apiUrl == "" {
		panic("JUDGE_API_URL not set in .env file")
	}
	return apiUrl
}

func GetJudgeWsUrlFromEnv() string {
	wsUrl := os.Getenv("JUDGE_WS_URL")
	if wsUrl == "" {
		panic("JUDGE_WS_URL not set in .env file")
	}
	return wsUrl
}

func GetJudgeApiKeyFromEnv() string {
	apiKey := os.Getenv("JUDGE_API_KEY")
	if apiKey == "" {
		panic("JUDGE_API_KEY not set in .env file")
	}
	return apiKey
}

func GetProblemCatalogUrlFromEnv() string {
	catalogUrl := os.Getenv("PROBLEM_CATALOG_URL")
	if catalogUrl == "" {
		panic("PROBLEM_CATALOG_URL not set in .env file")
	}
	return catalogUrl
}
