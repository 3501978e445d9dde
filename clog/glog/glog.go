// Package glog routes clog messages to github.com/golang/glog.
// Importing it for side effects installs the backend.
package glog

import (
	"flag"
	"fmt"
	"strconv"

	"github.com/golang/glog"

	"github.com/cayleygraph/shacl/clog"
)

func init() {
	clog.SetLogger(Logger{})
}

// Logger is a clog.Logger backed by glog.
type Logger struct{}

var _ clog.Leveler = Logger{}

func (Logger) Infof(format string, args ...interface{}) {
	glog.InfoDepth(3, fmt.Sprintf(format, args...))
}
func (Logger) Warningf(format string, args ...interface{}) {
	glog.WarningDepth(3, fmt.Sprintf(format, args...))
}
func (Logger) Errorf(format string, args ...interface{}) {
	glog.ErrorDepth(3, fmt.Sprintf(format, args...))
}
func (Logger) Fatalf(format string, args ...interface{}) {
	glog.FatalDepth(3, fmt.Sprintf(format, args...))
}

func (Logger) V(level int) bool {
	return bool(glog.V(glog.Level(level)))
}

// SetV changes glog verbosity through its "v" flag.
func (Logger) SetV(v int) {
	if f := flag.Lookup("v"); f != nil {
		if err := f.Value.Set(strconv.Itoa(v)); err == nil {
			return
		}
	}
	glog.Warningf("changing log level is not supported; run command with '-v %d' flag", v)
}
