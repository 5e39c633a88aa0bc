package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

// HTTPOptions contains HTTP server configuration.
type HTTPOptions struct {
	// Addr is the listen address (host:port).
	Addr string `json:"addr" mapstructure:"addr"`

	// Mode is the gin mode (debug|release|test).
	Mode string `json:"mode" mapstructure:"mode"`
}

// NewHTTPOptions creates HTTP options with defaults.
func NewHTTPOptions() *HTTPOptions {
	return &HTTPOptions{
		Addr: ":8082",
		Mode: "release",
	}
}

// AddFlags adds HTTP flags to the flag set.
func (o *HTTPOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Addr, "http.addr", o.Addr, "HTTP listen address (host:port).")
	fs.StringVar(&o.Mode, "http.mode", o.Mode, "HTTP server mode (debug|release|test).")
}

// Validate validates the HTTP options.
func (o *HTTPOptions) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.Addr == "" {
		errs = append(errs, fmt.Errorf("http addr is required"))
	}
	switch o.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("invalid http mode %q", o.Mode))
	}
	return errs
}
