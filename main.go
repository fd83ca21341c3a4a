package main

import "ticketlogger/server/cmd"

func main() {
	cmd.Execute()
}
