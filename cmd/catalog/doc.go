// Command catalog runs and administers the product catalog service.
//
//	catalog serve [--port 8080]   # start the HTTP server
//	catalog route:list            # list API routes
//	catalog db:indexes            # create MongoDB indexes
//	catalog seed                  # load demo suppliers and products
//	catalog token <subject>       # issue a bearer token for writes
//
// Configuration comes from config/app.json, .env and the environment; see
// package config.
package main
