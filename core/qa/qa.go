package qa

import "strings"

type Category string

const (
	CategoryAll      Category = "all"
	CategoryOrder    Category = "order"
	CategoryShipping Category = "shipping"
	CategoryReturns  Category = "returns"
	CategoryProduct  Category = "product"
	CategoryAccount  Category = "account"
	CategoryOther    Category = "other"
)

var Categories = []Category{CategoryAll, CategoryOrder, CategoryShipping, CategoryReturns, CategoryProduct, CategoryAccount, CategoryOther}

type Item struct {
	ID       int      `json:"id"`
	Category Category `json:"category"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Date     string   `json:"date"`
	Frequent bool     `json:"frequent"`
}

type Filter struct {
	Category     Category
	FrequentOnly bool
	// Keyword searches question and answer across the whole list and
	// replaces the category and frequent-only selection.
	Keyword string
}

// Apply filters items according to f.
func Apply(items []Item, f Filter) []Item {
	if kw := strings.ToLower(strings.TrimSpace(f.Keyword)); kw != "" {
		out := make([]Item, 0)
		for _, it := range items {
			if strings.Contains(strings.ToLower(it.Question), kw) || strings.Contains(strings.ToLower(it.Answer), kw) {
				out = append(out, it)
			}
		}
		return out
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if f.Category != "" && f.Category != CategoryAll && it.Category != f.Category {
			continue
		}
		if f.FrequentOnly && !it.Frequent {
			continue
		}
		out = append(out, it)
	}
	return out
}

func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c
		}
	}
	return CategoryAll
}

// Items returns the published Q&A list.
func Items() []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

var items = []Item{
	{1, CategoryOrder, "Can I change the payment method after ordering?", "The payment method can be changed within one hour of placing the order. Please contact customer service.", "2024-01-15", true},
	{2, CategoryOrder, "How many months of interest-free instalments are available?", "We offer 3, 6 and 12 month interest-free instalments. Some products may be excluded.", "2024-01-10", true},
	{3, CategoryOrder, "Until when can I cancel an order?", "Orders can be cancelled any time before shipment. After shipment please request a return.", "2024-01-08", false},
	{4, CategoryOrder, "Can points and coupons be combined?", "Points and coupons can be used together, but coupons of the same kind cannot be combined.", "2024-01-05", false},
	{5, CategoryOrder, "Do you ship overseas?", "We currently ship domestically only. International shipping is in preparation.", "2024-01-03", false},
	{6, CategoryShipping, "How long does delivery take?", "Standard delivery takes 2-3 days and express 1-2 days. Remote areas may need 1-2 extra days.", "2024-01-12", true},
	{7, CategoryShipping, "How do I track my delivery?", "Open My Page > Orders and click the order number for live tracking.", "2024-01-09", false},
	{8, CategoryShipping, "What happens if I am not home?", "After a failed delivery the courier retries twice and then holds the parcel for 3 days before returning it.", "2024-01-07", false},
	{9, CategoryShipping, "How much is shipping?", "Shipping is free on orders of 30,000 KRW or more; smaller orders pay 3,000 KRW.", "2024-01-04", true},
	{10, CategoryReturns, "How long is the return and exchange period?", "Returns and exchanges are accepted within 7 days of receipt if the item is in its original condition.", "2024-01-14", true},
	{11, CategoryReturns, "Who pays return shipping?", "The customer pays for a change of mind; we pay when the item is defective.", "2024-01-11", true},
	{12, CategoryReturns, "Can I exchange for a different size?", "Yes, if the size you want is in stock. Stock is checked when the exchange is requested.", "2024-01-06", false},
	{13, CategoryReturns, "How do I request a return?", "Use the return button in My Page > Orders or contact customer service.", "2024-01-02", false},
	{14, CategoryProduct, "What is the product made of?", "Material details are on each product page. Use product enquiries for anything else.", "2024-01-13", false},
	{15, CategoryProduct, "Is there a size guide?", "Yes, a detailed size guide with measuring instructions is at the bottom of each product page.", "2024-01-08", false},
	{16, CategoryProduct, "When will an out-of-stock item be restocked?", "Restock dates vary by product. Add it to your wish list to be notified.", "2024-01-05", false},
	{17, CategoryAccount, "I forgot my password.", "Use \"Find password\" on the login page or contact customer service.", "2024-01-10", false},
	{18, CategoryAccount, "How do I close my account?", "You can close your account in My Page > Edit profile. All data is deleted, so decide carefully.", "2024-01-07", false},
	{19, CategoryOther, "What is your privacy policy?", "Customer data is strictly protected and used only for the purposes it was collected for. See the privacy policy for details.", "2024-01-09", false},
	{20, CategoryOther, "How do I propose a partnership?", "Email customer service or use the \"Partnership\" link at the bottom of the home page.", "2024-01-04", false},
}
