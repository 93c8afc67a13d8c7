package configuration

type Configuration struct {
	HttpAddr          string `usage:"HTTP address"`
	Companies         string `usage:"path to the companies JSON file"`
	DataDir           string `usage:"base directory for relative company paths"`
	ApiKey            string `usage:"api key to protect the HTTP api, empty disables authentication"`
	ApiSecret         string `usage:"api secret to protect the HTTP api"`
	EnableCompression bool   `usage:"enable gzip compression"`
	Version           bool   `usage:"show version and exit"`
	ShowBanner        bool   `usage:"show big banner"`
	ShowConfig        bool   `usage:"print config"`
}

func Default() Configuration {
	return Configuration{
		HttpAddr:   ":8080",
		Companies:  "companies.json",
		DataDir:    "data",
		ShowBanner: true,
	}
}
