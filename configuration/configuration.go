package configuration

type Configuration struct {
	HttpAddr          string `usage:"HTTP address"`
	Dir               string `usage:"root directory, one subdirectory per database"`
	MaxLimit          int    `usage:"maximum page size of a read"`
	EnableCompression bool   `usage:"gzip responses when the client accepts it"`
	EnableMetrics     bool   `usage:"serve prometheus metrics on /metrics"`
	LogLevel          string `usage:"log level: debug, info, warn or error"`
	Version           bool   `usage:"show version and exit"`
	ShowBanner        bool   `usage:"show big banner"`
	ShowConfig        bool   `usage:"print config"`
}

func Default() Configuration {
	return Configuration{
		HttpAddr:          ":8787",
		Dir:               "/opt/docrest",
		MaxLimit:          1000,
		EnableCompression: false,
		EnableMetrics:     true,
		LogLevel:          "info",
		ShowBanner:        true,
	}
}
