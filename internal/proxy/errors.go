package proxy

import "errors"

var errNoWorkingProxy = errors.New("none of the configured proxies answered")
