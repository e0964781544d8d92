package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Input         string `mapstructure:"input"`
	Output        string `mapstructure:"output"`
	DB            string `mapstructure:"db"`
	Addr          string `mapstructure:"addr"`
	User          string `mapstructure:"user"`
	LogLevel      string `mapstructure:"log_level"`
	LogFormat     string `mapstructure:"log_format"`
	ColorCategory string `mapstructure:"color_category"`
	ColorTitle    string `mapstructure:"color_title"`
	ColorEasy     string `mapstructure:"color_easy"`
	ColorMedium   string `mapstructure:"color_medium"`
	ColorHard     string `mapstructure:"color_hard"`
	ColorDim      string `mapstructure:"color_dim"`
	ColorCursor   string `mapstructure:"color_cursor"`
	ColorSelected string `mapstructure:"color_selected"`
	ColorBorder   string `mapstructure:"color_border"`
}

// C is the global config instance
var C Config

// Init initializes configuration with viper
func Init() error {
	// A .env file is optional; real environment variables win over it
	_ = godotenv.Load()

	viper.SetDefault("input", "neetcode.txt")
	viper.SetDefault("output", filepath.Join("src", "data", "neetcodeData.js"))
	viper.SetDefault("db", "studymd.db")
	viper.SetDefault("addr", ":8080")
	viper.SetDefault("user", getDefaultUser())
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")
	viper.SetDefault("color_category", "36") // Cyan
	viper.SetDefault("color_title", "97")    // White
	viper.SetDefault("color_easy", "32")     // Green
	viper.SetDefault("color_medium", "33")   // Yellow
	viper.SetDefault("color_hard", "31")     // Red
	viper.SetDefault("color_dim", "241")
	viper.SetDefault("color_cursor", "212")
	viper.SetDefault("color_selected", "236")
	viper.SetDefault("color_border", "240")

	viper.SetConfigName("studymd")
	viper.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "studymd"))
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("STUDYMD")
	viper.AutomaticEnv()

	// Try to read config, but don't fail if not found or malformed
	_ = viper.ReadInConfig()

	return viper.Unmarshal(&C)
}

// GetInput returns the study-guide text path
func GetInput() string {
	return expandTilde(viper.GetString("input"))
}

// GetOutput returns the generated data-table path
func GetOutput() string {
	return expandTilde(viper.GetString("output"))
}

// GetDB returns the SQLite database path
func GetDB() string {
	return expandTilde(viper.GetString("db"))
}

// GetAddr returns the HTTP listen address
func GetAddr() string {
	return viper.GetString("addr")
}

// GetUser returns the user id activity is recorded under
func GetUser() string {
	return viper.GetString("user")
}

// GetLogLevel returns the logrus level name
func GetLogLevel() string {
	return viper.GetString("log_level")
}

// GetLogFormat returns "text" or "json"
func GetLogFormat() string {
	return viper.GetString("log_format")
}

// GetColorCategory returns ANSI color code for category headings
func GetColorCategory() string {
	return viper.GetString("color_category")
}

// GetColorTitle returns ANSI color code for problem titles
func GetColorTitle() string {
	return viper.GetString("color_title")
}

// GetColorEasy returns ANSI color code for Easy problems
func GetColorEasy() string {
	return viper.GetString("color_easy")
}

// GetColorMedium returns ANSI color code for Medium problems
func GetColorMedium() string {
	return viper.GetString("color_medium")
}

// GetColorHard returns ANSI color code for Hard problems
func GetColorHard() string {
	return viper.GetString("color_hard")
}

func GetColorDim() string {
	return viper.GetString("color_dim")
}

func GetColorCursor() string {
	return viper.GetString("color_cursor")
}

func GetColorSelected() string {
	return viper.GetString("color_selected")
}

func GetColorBorder() string {
	return viper.GetString("color_border")
}

// SetInput sets the input path at runtime
func SetInput(path string) {
	viper.Set("input", path)
	C.Input = path
}

// SetOutput sets the output path at runtime
func SetOutput(path string) {
	viper.Set("output", path)
	C.Output = path
}

// expandTilde expands ~ to the user's home directory
func expandTilde(path string) string {
	if len(path) == 0 {
		return path
	}
	if path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

func getDefaultUser() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "local"
}
