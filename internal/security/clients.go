package security

// In-memory client registry (replace with DB/config later)
type Client struct {
	ID      string
	Secret  string
	Perms   []string // e.g. {"orders.read","orders.write"}
	Enabled bool
}

var Clients = map[string]Client{
	"storefront-web": {ID: "storefront-web", Secret: "storefront-secret", Perms: []string{"carts.read", "carts.write", "orders.read", "orders.write"}, Enabled: true},
	"svc-payment-gw": {ID: "svc-payment-gw", Secret: "payment-gw-secret", Perms: []string{"orders.read", "orders.write"}, Enabled: true},
	"svc-delivery":   {ID: "svc-delivery", Secret: "delivery-secret", Perms: []string{"orders.read", "orders.write"}, Enabled: true},
	"svc-analytics":  {ID: "svc-analytics", Secret: "ana-secret", Perms: []string{"orders.read", "carts.read"}, Enabled: true},
}
