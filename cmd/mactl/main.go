package main

import "github.com/appengine-ltd/mine-anything/cmd/mactl/root"

func main() {
	root.Execute()
}
