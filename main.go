package main

import (
	"github.com/mj1618/docklike/cmd"

	_ "github.com/mj1618/docklike/internal/platform/hyprland"
)

func main() {
	cmd.Execute()
}
