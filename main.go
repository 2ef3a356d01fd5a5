package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"found-music-bot/config"
	"found-music-bot/utils"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Println("error loading configuration:", err)
		os.Exit(1)
	}

	if err := utils.CreateFolder(cfg.ScratchDir); err != nil {
		fmt.Println("error creating scratch folder:", err)
		os.Exit(1)
	}

	cmd := "run"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "run":
		run(cfg)

	case "find":
		if len(os.Args) < 3 {
			fmt.Println("usage: found-music-bot find <path_to_media_file>")
			os.Exit(1)
		}
		find(cfg, os.Args[2])

	case "search":
		if len(os.Args) < 3 {
			fmt.Println("usage: found-music-bot search <query>")
			os.Exit(1)
		}
		search(cfg, strings.Join(os.Args[2:], " "))

	case "stats":
		var chatID int64
		if len(os.Args) > 2 {
			chatID, err = strconv.ParseInt(os.Args[2], 10, 64)
			if err != nil {
				fmt.Println("usage: found-music-bot stats [chat_id]")
				os.Exit(1)
			}
		}
		stats(cfg, chatID)

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("usage: found-music-bot [command]")
	fmt.Println()
	fmt.Println("commands:")
	fmt.Println("  run                      start the telegram bot (default)")
	fmt.Println("  find   <media_file>      recognize the song in a local file")
	fmt.Println("  search <query>           search songs by text")
	fmt.Println("  stats  [chat_id]         show lookup history counts")
}
