package main

import "postsapi/service"

func main() {
	service.Execute()
}
