// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package web embeds the workspace's static assets, served at /static/.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree: the workspace stylesheet
// and the script that wires answer feedback, import results and the log
// panel toggle onto htmx events.
//
//go:embed all:static
var StaticFS embed.FS
