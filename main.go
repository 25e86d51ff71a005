package main

import (
	"log"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"fudo/advisor"
	"fudo/config"
	"fudo/dataset"
	"fudo/model"
)

const listenAddr = ":8080"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("WARN: Failed to load config file: %v. Using defaults.", err)
		cfg = config.GetConfig()
	}

	now := time.Now()
	store := dataset.NewStore(model.AnalysisParams{
		AnalysisDate:            time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		ExpiryWeightPercent:     cfg.ExpiryWeightPercent,
		StagnationThresholdDays: cfg.StagnationThresholdDays,
		TopN:                    cfg.TopN,
	})
	adv := advisor.New()

	mux := http.NewServeMux()

	mux.Handle("/static/", http.StripPrefix("/static/",
		http.FileServer(http.Dir("./static"))))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, "./static/index.html")
	})

	SetupRoutes(mux, store, adv)

	log.Printf("Starting server on http://localhost%s", listenAddr)

	openBrowser("http://localhost" + listenAddr)

	if err := http.ListenAndServe(listenAddr, mux); err != nil {
		log.Fatalf("server start error: %v", err)
	}
}

func openBrowser(url string) {
	var err error
	switch runtime.GOOS {
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = exec.Command("xdg-open", url).Start()
	}
	if err != nil {
		log.Printf("failed to open browser: %v", err)
	}
}
