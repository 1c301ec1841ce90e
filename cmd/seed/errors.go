package main

import "errors"

var errMemoryDriver = errors.New("the memory store is private to the server process; use sqlite or postgres")
