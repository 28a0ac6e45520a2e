// Package config holds the settings of the updatejoin command and loads
// them from flags, the environment and a TOML file.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/alexwohletz/pandas-utils/frame"
	"github.com/alexwohletz/pandas-utils/update"
)

// EnvPrefix is prepended, with an underscore, to the upper-cased flag name
// to form the environment variable of each option.
const EnvPrefix = "PANDAS_UTILS"

// Config is everything an update run needs. Left and Right are file paths
// or "sqlite:<dsn>" sources read with LeftQuery and RightQuery.
type Config struct {
	Left         string   `toml:"left"`
	Right        string   `toml:"right"`
	LeftQuery    string   `toml:"left-query"`
	RightQuery   string   `toml:"right-query"`
	UpdateCol    string   `toml:"update-col"`
	SourceCol    string   `toml:"source-col"`
	TargetKey    []string `toml:"target-key"`
	On           []string `toml:"on"`
	How          string   `toml:"how"`
	Overwrite    bool     `toml:"overwrite"`
	ValidateKeys bool     `toml:"validate"`

	PreviewRows int    `toml:"preview-rows"`
	Out         string `toml:"out"`
	Verbose     bool   `toml:"verbose"`
}

// NewConfig returns a Config with default values.
func NewConfig() *Config {
	return &Config{
		How:         frame.InnerJoin.String(),
		PreviewRows: update.DefaultPreviewRows,
	}
}

// BindFlags registers one flag per option, storing into c.
func (c *Config) BindFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Left, "left", c.Left, "Table to update: .csv, .json, .parquet, .xlsx, .arrow or sqlite:<dsn>")
	flags.StringVar(&c.Right, "right", c.Right, "Table supplying values, same formats as --left")
	flags.StringVar(&c.LeftQuery, "left-query", c.LeftQuery, "Query selecting the left table from a sqlite source")
	flags.StringVar(&c.RightQuery, "right-query", c.RightQuery, "Query selecting the right table from a sqlite source")
	flags.StringVar(&c.UpdateCol, "update-col", c.UpdateCol, "Left column receiving values, created if missing")
	flags.StringVar(&c.SourceCol, "source-col", c.SourceCol, "Right column supplying values")
	flags.StringSliceVar(&c.TargetKey, "target-key", c.TargetKey, "Left column(s) identifying the rows to update")
	flags.StringSliceVar(&c.On, "on", c.On, "Column(s) to join on, present in both tables")
	flags.StringVar(&c.How, "how", c.How, "Join type: inner, left, right or outer")
	flags.BoolVar(&c.Overwrite, "overwrite", c.Overwrite, "Replace existing values instead of only filling nulls")
	flags.BoolVar(&c.ValidateKeys, "validate", c.ValidateKeys, "Check join keys for whitespace, duplicates and overlap first")
	flags.IntVar(&c.PreviewRows, "preview-rows", c.PreviewRows, "Assignments to show before merging, negative to disable")
	flags.StringVarP(&c.Out, "out", "o", c.Out, "Write the result here instead of printing it, format by extension")
	flags.BoolVarP(&c.Verbose, "verbose", "v", c.Verbose, "Enable debug logging")
}

// SetAll applies, in priority order, the command line, the environment
// (EnvPrefix_<FLAG_NAME>) and the TOML file named by the "config" flag to
// every flag in flags. Since flags point into their destinations, this fills
// the bound Config. Keys in the file that match no flag are rejected.
func SetAll(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := v.BindPFlags(flags); err != nil {
		return errors.Wrap(err, "binding flags")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	validTags := make(map[string]bool)
	flags.VisitAll(func(f *pflag.Flag) {
		validTags[f.Name] = true
	})

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading configuration file '%s'", path)
		}
		for _, key := range v.AllKeys() {
			if !validTags[key] {
				return errors.Errorf("invalid option in configuration file: %v", key)
			}
		}
	}

	var flagErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if flagErr != nil || f.Changed {
			// Flags already hold the highest priority value.
			return
		}
		var value string
		if f.Value.Type() == "stringSlice" {
			// GetString is empty for a real list read from the file.
			value = strings.Join(v.GetStringSlice(f.Name), ",")
		} else {
			value = v.GetString(f.Name)
		}
		if err := f.Value.Set(value); err != nil {
			flagErr = errors.Wrapf(err, "setting %s", f.Name)
		}
	})
	return flagErr
}

// Validate reports the first missing or malformed option.
func (c *Config) Validate() error {
	switch {
	case c.Left == "":
		return errors.New("left table is required")
	case c.Right == "":
		return errors.New("right table is required")
	case c.UpdateCol == "":
		return errors.New("update column is required")
	case c.SourceCol == "":
		return errors.New("source column is required")
	case len(c.TargetKey) == 0:
		return errors.New("target key is required")
	case len(c.On) == 0:
		return errors.New("at least one join column is required")
	}
	if strings.HasPrefix(c.Left, SQLitePrefix) && c.LeftQuery == "" {
		return errors.New("left-query is required for a sqlite left table")
	}
	if strings.HasPrefix(c.Right, SQLitePrefix) && c.RightQuery == "" {
		return errors.New("right-query is required for a sqlite right table")
	}
	how, err := frame.ParseJoinType(c.How)
	if err != nil {
		return errors.Wrap(err, "how")
	}
	if how == frame.CrossJoin {
		return errors.New("cross joins cannot align rows, use inner, left, right or outer")
	}
	return nil
}

// SQLitePrefix marks a table source as a sqlite data source name.
const SQLitePrefix = "sqlite:"

// UpdateOptions maps the configuration onto update.Options.
func (c *Config) UpdateOptions() (update.Options, error) {
	how, err := frame.ParseJoinType(c.How)
	if err != nil {
		return update.Options{}, errors.Wrap(err, "how")
	}
	return update.Options{
		UpdateCol:   c.UpdateCol,
		SourceCol:   c.SourceCol,
		TargetKey:   trimAll(c.TargetKey),
		JoinKeys:    trimAll(c.On),
		How:         how,
		Overwrite:   c.Overwrite,
		Validate:    c.ValidateKeys,
		PreviewRows: c.PreviewRows,
	}, nil
}

func trimAll(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}
