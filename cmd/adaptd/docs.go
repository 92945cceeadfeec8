package main

// General API documentation for swaggo. Run `swag init -g cmd/adaptd/docs.go -o docs` to regenerate.
//
// @title           adaptd API
// @version         1.0
// @description     HTTP API for inference-time task adaptation and generation.
//
// @contact.name   adaptd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
