package config

import "os"

type Config struct {
	ServerPort        string
	WorkDir           string
	TesseractDataPath string
	LLMBaseURL        string
	LLMAPIKey         string
	LLMModel          string
	MaxFileSize       int64
}

func LoadConfig() *Config {
	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	workDir := os.Getenv("WORK_DIR")
	if workDir == "" {
		workDir = os.TempDir()
	}

	tesseractDataPath := os.Getenv("TESSDATA_PREFIX")
	if tesseractDataPath == "" {
		tesseractDataPath = "/usr/share/tesseract-ocr/5/tessdata/"
	}

	llmBaseURL := os.Getenv("LLM_BASE_URL")
	if llmBaseURL == "" {
		llmBaseURL = "https://api.openai.com/v1"
	}

	llmModel := os.Getenv("LLM_MODEL")
	if llmModel == "" {
		llmModel = "gpt-4o-mini"
	}

	return &Config{
		ServerPort:        serverPort,
		WorkDir:           workDir,
		TesseractDataPath: tesseractDataPath,
		LLMBaseURL:        llmBaseURL,
		LLMAPIKey:         os.Getenv("LLM_API_KEY"),
		LLMModel:          llmModel,
		MaxFileSize:       64 * 1024 * 1024, // 64 MB, J-Book volumes are large
	}
}
