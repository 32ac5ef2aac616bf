package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/errhandling/logger"
)

// Defaulter is implemented by configs that fill in their own defaults.
type Defaulter interface {
	ApplyDefaults()
}

// Validator is implemented by configs that check themselves after loading.
type Validator interface {
	Validate() error
}

// FileSystem abstracts the file lookups the loader makes.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// OSFileSystem reads the real file system.
type OSFileSystem struct{}

func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv exports the variables of a .env file that are not already set.
func (OSFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Files names the config.yml and .env a service loads. Empty means none.
type Files struct {
	Config string
	Env    string
}

type loadOptions struct {
	fs    FileSystem
	files Files
	log   *logger.Logger
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*loadOptions)

// WithFileSystem replaces the file system used to find and read files.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(o *loadOptions) { o.fs = fs }
}

// WithConfigFile skips the config.yml search and reads path.
func WithConfigFile(path string) LoaderOption {
	return func(o *loadOptions) { o.files.Config = path }
}

// WithEnvFile skips the .env search and reads path.
func WithEnvFile(path string) LoaderOption {
	return func(o *loadOptions) { o.files.Env = path }
}

// WithLogger receives warnings about files that exist but cannot be read.
// Without it they go to the global logger.
func WithLogger(l *logger.Logger) LoaderOption {
	return func(o *loadOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// LoadConfig fills cfg for serviceName from config.yml, a .env file and the
// process environment, in increasing precedence. Environment variables are
// named after cfg's mapstructure keys: logging.format reads LOGGING_FORMAT.
// ApplyDefaults and Validate run afterwards when cfg implements them.
func LoadConfig(serviceName string, cfg any, opts ...LoaderOption) error {
	o := loadOptions{fs: OSFileSystem{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Get("config")
	}

	files := resolve(o.fs, serviceName, o.files)
	if err := read(o, files, cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}

	if d, ok := cfg.(Defaulter); ok {
		d.ApplyDefaults()
	}
	if v, ok := cfg.(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("invalid config for service %s: %w", serviceName, err)
		}
	}
	return nil
}

func read(o loadOptions, files Files, cfg any) error {
	if files.Env != "" && o.fs.Exists(files.Env) {
		if err := o.fs.LoadEnv(files.Env); err != nil {
			o.log.Warn("failed to load .env file", logger.Fields("file", files.Env, logger.FieldError, err.Error()))
		}
	}

	v := viper.New()
	if files.Config != "" && o.fs.Exists(files.Config) {
		v.SetConfigFile(files.Config)
		if err := v.ReadInConfig(); err != nil {
			o.log.Warn("failed to load config file", logger.Fields("file", files.Config, logger.FieldError, err.Error()))
		}
	}

	for _, key := range envKeys(reflect.TypeOf(cfg), "") {
		_ = v.BindEnv(key, envName(key))
	}
	return v.Unmarshal(cfg)
}

// resolve fills the files not given explicitly with the first match found
// under cmd/<service>, config/ and the working directory or its parents.
func resolve(fs FileSystem, serviceName string, explicit Files) Files {
	files := explicit
	if files.Config == "" {
		files.Config = firstExisting(fs, configCandidates(serviceName))
	}
	if files.Env == "" {
		files.Env = firstExisting(fs, envCandidates(serviceName))
	}
	return files
}

var searchRoots = []string{".", "..", "../.."}

// serviceNames returns the service name and, for "team-errprobe", its last
// dash-separated segment.
func serviceNames(serviceName string) []string {
	if i := strings.LastIndex(serviceName, "-"); i != -1 && i < len(serviceName)-1 {
		return []string{serviceName, serviceName[i+1:]}
	}
	return []string{serviceName}
}

func configCandidates(serviceName string) []string {
	var paths []string
	for _, root := range searchRoots {
		for _, name := range serviceNames(serviceName) {
			paths = append(paths, filepath.Join(root, "cmd", name, "config.yml"))
		}
	}
	return append(paths,
		filepath.Join(".", "config", "config.yml"),
		filepath.Join("..", "config", "config.yml"),
		"config.yml",
	)
}

func envCandidates(serviceName string) []string {
	var dirs []string
	for _, name := range serviceNames(serviceName) {
		for _, root := range searchRoots {
			dirs = append(dirs, filepath.Join(root, "cmd", name), filepath.Join(root, "config", name))
		}
	}
	for _, root := range searchRoots {
		dirs = append(dirs, filepath.Join(root, "config"))
	}
	dirs = append(dirs, searchRoots...)

	var paths []string
	for _, file := range []string{".env." + serviceName, ".env"} {
		for _, dir := range dirs {
			paths = append(paths, filepath.Join(dir, file))
		}
	}
	return paths
}

func firstExisting(fs FileSystem, paths []string) string {
	for _, p := range paths {
		if fs.Exists(p) {
			return p
		}
	}
	return ""
}

var timeType = reflect.TypeOf(time.Time{})

// envKeys lists the viper key of every leaf field in t, following
// mapstructure tags. Squashed structs share their parent's prefix.
func envKeys(t reflect.Type, prefix string) []string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "-" {
			continue
		}

		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		nested := ft.Kind() == reflect.Struct && ft != timeType
		if nested && strings.Contains(opts, "squash") {
			keys = append(keys, envKeys(ft, prefix)...)
			continue
		}

		if name == "" {
			name = f.Name
		}
		key := strings.ToLower(name)
		if prefix != "" {
			key = prefix + "." + key
		}
		if nested {
			keys = append(keys, envKeys(ft, key)...)
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

// envName maps a viper key to its environment variable: http.base_url is HTTP_BASE_URL.
func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
