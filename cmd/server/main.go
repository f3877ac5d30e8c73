package main

import "folha/internal/app/server"

func main() {
	server.Run()
}
