package main

import (
	"hnherald/cmd/handlers"
	"hnherald/internal/logger"
)

func main() {
	logger.Init("info")
	handlers.Execute()
}
