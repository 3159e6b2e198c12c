//go:build !tinygo

package app

const defaultHTTPAddr = ":8080"
