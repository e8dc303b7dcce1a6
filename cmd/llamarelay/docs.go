package main

// General API documentation for swaggo. Run `swag init -g cmd/llamarelay/docs.go`
// to regenerate the OpenAPI document served under -tags=swagger.
//
// @title           llamarelay API
// @version         1.0
// @description     Relays a prompt to a local command-line model runner and returns its output.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
