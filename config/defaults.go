package config

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/smartchat",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Model: ModelConfig{
			Provider:       "gemini",
			BaseURL:        "https://generativelanguage.googleapis.com/v1beta/openai/",
			TextModel:      "gemini-flash-latest",
			VisionModel:    "gemini-flash-latest",
			TimeoutSeconds: 120,
		},
		Server: ServerConfig{
			Listen:             "127.0.0.1:8501",
			MaxUploadMB:        20,
			SessionIdleMinutes: 60,
		},
		Dataset: DatasetConfig{
			FetchTimeoutSeconds: 30,
			MaxBytesMB:          50,
		},
		Chart: ChartConfig{
			Width:  900,
			Height: 540,
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# smartchat System Configuration
# Location: ~/.config/smartchat/settings.toml
# This file uses TOML format: https://toml.io

# Directory where user config, charts and the debug log are stored
data_directory = "~/.local/share/smartchat"
`
}

func GenerateUserConfigTemplate() string {
	return `# smartchat User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io
# The API key is read from GOOGLE_API_KEY (environment or .env), never from here.

[model]
# "gemini" talks to Google Gemini; "offline" answers simple questions locally
provider = "gemini"

# Gemini's OpenAI-compatible endpoint
base_url = "https://generativelanguage.googleapis.com/v1beta/openai/"

# Model for text questions, and for questions with an attached image
text_model = "gemini-flash-latest"
vision_model = "gemini-flash-latest"

# Give up on a reply after this many seconds
timeout_seconds = 120

[server]
# Address of the browser interface (smartchat serve)
listen = "127.0.0.1:8501"

# Largest accepted upload (images and CSV files)
max_upload_mb = 20

# Forget a browser conversation after this many idle minutes
session_idle_minutes = 60

[dataset]
# Timeout for loading CSV files from a URL
fetch_timeout_seconds = 30

# Largest CSV file accepted
max_bytes_mb = 50

[chart]
# Rendered chart size in pixels
width = 900
height = 540
`
}
