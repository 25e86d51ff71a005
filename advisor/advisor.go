// AI在庫アドバイザー。サマリーテキストを生成サービスへ渡し、
// 助言テキストを受け取るだけの薄い層です。リトライはせず、
// 同時に実行できるリクエストは1件だけです。
package advisor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"fudo/config"
)

// ErrBusy は助言リクエストが既に実行中であることを表します。
var ErrBusy = errors.New("AI分析は実行中です。完了までお待ちください")

const requestTimeout = 60 * time.Second

const systemPrompt = "あなたは保険薬局の在庫管理コンサルタントです。" +
	"渡された在庫分析サマリーをもとに、不動在庫の削減・期限切れロスの防止・" +
	"発注調整の観点から、実行しやすい順に具体的な助言を日本語でまとめてください。"

type Advisor struct {
	inFlight atomic.Bool
}

func New() *Advisor {
	return &Advisor{}
}

// Generate はサマリーテキストから助言レポートを生成します。
// 実行中に再度呼ばれた場合は ErrBusy を返します。失敗はその
// リクエスト限りで、アプリの他の状態には影響しません。
func (a *Advisor) Generate(ctx context.Context, summaryText string) (string, error) {
	if !a.inFlight.CompareAndSwap(false, true) {
		return "", ErrBusy
	}
	defer a.inFlight.Store(false)

	cfg := config.GetConfig()
	apiKey := cfg.AdvisorAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return "", errors.New("APIキーが設定されていません（設定画面または OPENAI_API_KEY で指定してください）")
	}

	clientOptions := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if cfg.AdvisorBaseURL != "" {
		baseURL := cfg.AdvisorBaseURL
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		clientOptions = append(clientOptions, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(clientOptions...)

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(summaryText),
		},
		Model:       openai.ChatModel(cfg.AdvisorModel),
		Temperature: openai.Float(cfg.AdvisorTemperature),
		MaxTokens:   openai.Int(int64(cfg.AdvisorMaxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("AI分析リクエストに失敗しました: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("AI分析の応答が空でした")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
