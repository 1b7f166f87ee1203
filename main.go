package main

import "github.com/edustride/crm-backend/cmd"

func main() {
	cmd.Execute()
}
