package config

// CitySource says where one city's trips live and how to read them
type CitySource struct {
	Name string `yaml:"name" validate:"required"`
	// Location is a path relative to DataDir, an absolute path, or s3://bucket/key. Unused for sql.
	Location string `yaml:"location" validate:"required_unless=Format sql"`
	// Format is csv, ndjson, parquet or sql; empty means guess from the location's extension
	Format     string `yaml:"format" validate:"omitempty,oneof=csv ndjson parquet sql"`
	TimeLayout string `yaml:"timeLayout"`
}

type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0,lt=65536"`
}

type S3Config struct {
	Region   string `yaml:"region" validate:"required"`
	Endpoint string `yaml:"endpoint" validate:"omitempty,url"`
}

type DBConfig struct {
	DSN string `yaml:"dsn"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	DataDir string       `yaml:"dataDir"`
	Server  ServerConfig `yaml:"server"`
	S3      S3Config     `yaml:"s3"`
	DB      DBConfig     `yaml:"db"`
	Cities  Cities       `yaml:"cities" validate:"dive"`
	// ShutdownSleepSec delays HTTP shutdown so load balancers can drain
	ShutdownSleepSec int `yaml:"shutdownSleepSec" validate:"gte=0"`
}

type Cities []CitySource

// Lookup finds a city's source by its normalized name
func (c Cities) Lookup(name string) (CitySource, bool) {
	for _, src := range c {
		if NormalizeCity(src.Name) == name {
			return src, true
		}
	}
	return CitySource{}, false
}

func (c Cities) Names() []string {
	names := make([]string, 0, len(c))
	for _, src := range c {
		names = append(names, NormalizeCity(src.Name))
	}
	return names
}
