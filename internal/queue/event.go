// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketPurchasedEvent is published when a seat purchase is committed.
// It carries enough information for downstream consumers to log or
// notify without querying the primary database.
type TicketPurchasedEvent struct {
    TicketID    uint64 `json:"ticket_id"`
    ShowID      uint64 `json:"show_id"`
    ShowName    string `json:"show_name"`
    UserID      uint64 `json:"user_id"`
    PosRow      int    `json:"pos_row"`
    Cell        int    `json:"cell"`
    PurchasedAt string `json:"purchased_at"`
}
