// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package main is the entry point of the avconfig CLI, a thin
// operator front-end over the layered configuration engine: it loads
// a cstyle config, runs the resolution and refresh passes, and can
// dump or save the resulting store.
package main

import "github.com/avibit/avconfig2/cmd/avconfig/command"

func main() {
	command.Execute()
}
