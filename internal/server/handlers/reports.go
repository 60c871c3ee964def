package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sellerdesk/lazgate/internal/accounts"
	"github.com/sellerdesk/lazgate/internal/aggregate"
	"github.com/sellerdesk/lazgate/internal/db/models"
	"github.com/sellerdesk/lazgate/internal/lazada"
)

// AccountReport is one account's slice of the aggregated report: either the
// raw platform payload or that account's error, never the whole batch failing.
type AccountReport struct {
	AccountID string          `json:"account_id"`
	Account   string          `json:"account"`
	Country   string          `json:"country"`
	OK        bool            `json:"ok"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// ReportOverviewHandler fans the report fetch out over every connected
// account and settles all of them. Accounts that fail report their own error;
// the rest still return data. Defaults to the last seven days.
func ReportOverviewHandler(client *lazada.Client, store *accounts.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accs, err := store.List()
		if err != nil {
			writeError(w, err)
			return
		}
		if len(accs) == 0 {
			writeJSON(w, http.StatusOK, map[string]interface{}{"reports": []AccountReport{}})
			return
		}

		startDate := r.URL.Query().Get("start_date")
		endDate := r.URL.Query().Get("end_date")
		if startDate == "" || endDate == "" {
			now := time.Now()
			startDate = now.AddDate(0, 0, -7).Format("2006-01-02")
			endDate = now.Format("2006-01-02")
		}

		results := aggregate.FetchAll(r.Context(), accs,
			func(ctx context.Context, acc models.Account) (*lazada.Response, error) {
				return client.GetReportOverview(ctx, acc.AccessToken, startDate, endDate)
			})

		reports := make([]AccountReport, 0, len(results))
		failed := 0
		for _, res := range results {
			report := AccountReport{
				AccountID: res.AccountID,
				Account:   res.AccountName,
				Country:   res.Country,
			}
			if res.Err != nil {
				report.Error = res.Err.Error()
				failed++
			} else {
				report.OK = true
				report.Data = res.Value.Raw
			}
			reports = append(reports, report)
		}

		if failed > 0 {
			log.Warn().Int("failed", failed).Int("total", len(results)).Msg("partial report fetch")
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"start_date": startDate,
			"end_date":   endDate,
			"reports":    reports,
		})
	}
}
