package payment

import "context"

// 決済プロセッサに渡す明細。金額はスナップショット済みの値。
type LineItem struct {
	Description string `json:"description"`
	UnitAmount  int64  `json:"unit_amount"`
	Quantity    int64  `json:"quantity"`
}

type CreateSessionInput struct {
	LineItems  []LineItem `json:"line_items"`
	SuccessURL string     `json:"success_url"`
	CancelURL  string     `json:"cancel_url"`
}

// 決済セッション。IDを注文に紐付けてwebhookで照合する。
type Session struct {
	ID          string `json:"session_id"`
	RedirectURL string `json:"redirect_url"`
}

// 決済プロセッサとの境界。
type Client interface {
	CreateSession(ctx context.Context, in CreateSessionInput) (Session, error)
}
