package main

import (
	"net/http"

	"fudo/advisor"
	"fudo/aggregation"
	"fudo/dataset"
	"fudo/listview"
	"fudo/report"
	"fudo/summary"
)

func SetupRoutes(mux *http.ServeMux, store *dataset.Store, adv *advisor.Advisor) {

	mux.HandleFunc("/api/data/load", dataset.LoadDataHandler(store))
	mux.HandleFunc("/api/exclusions", dataset.SetExclusionsHandler(store))
	mux.HandleFunc("/api/analysis/recalculate", dataset.RecalculateHandler(store))

	mux.HandleFunc("/api/records", listview.RecordsHandler(store))
	mux.HandleFunc("/api/filters/options", listview.FilterOptionsHandler(store))

	mux.HandleFunc("/api/dashboard", aggregation.DashboardHandler(store))
	mux.HandleFunc("/api/rankings", aggregation.RankingsHandler(store))
	mux.HandleFunc("/api/rankings/export", aggregation.ExportRankingsCSVHandler(store))
	mux.HandleFunc("/api/charts", aggregation.ChartsHandler(store))

	mux.HandleFunc("/api/summary", summary.SummaryHandler(store))
	mux.HandleFunc("/api/advisor", advisor.AdviceHandler(store, adv))

	mux.HandleFunc("/api/report", report.ReportHandler(store))
	mux.HandleFunc("/api/report/pdf", report.ReportPDFHandler(store, "http://localhost"+listenAddr+"/api/report"))

	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			GetConfigHandler()(w, r)
		case http.MethodPost:
			SaveConfigHandler()(w, r)
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	})
}
