//go:build tinygo

package app

const defaultHTTPAddr = ":80"
