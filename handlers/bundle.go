package handlers

// HandlerBundle groups every HTTP handler so route registration takes a
// single wired value.
type HandlerBundle struct {
	Booking   *BookingHandler
	Functions *FunctionsHandler
	Checkout  *CheckoutHandler
	Webhook   *WebhookHandler
}
