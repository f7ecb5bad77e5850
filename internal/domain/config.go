package domain

type Config struct {
	Version          string
	ConfigPath       string
	DownloadLocation string                     `yaml:"downloadLocation"`
	Format           string                     `yaml:"format"`
	RequestDelay     int                        `yaml:"requestDelay"` // in milliseconds
	RequestRetries   int                        `yaml:"requestRetries"`
	CheckInterval    int                        `yaml:"checkInterval"`
	MonitoredSeries  map[string]*MonitoredSerie `yaml:"monitoredSeries"`
	LogPath          string                     `yaml:"logPath"`
	LogLevel         string                     `yaml:"logLevel"`
	LogMaxSize       int                        `yaml:"logMaxSize"` // in megabytes
	LogMaxBackups    int                        `yaml:"logMaxBackups"`
}

type MonitoredSerie struct {
	Serie string `yaml:"serie"`
	Media string `yaml:"media"`
}
