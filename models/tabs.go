package models

// ScreenDescriptor -> satu tab di aplikasi client/staff.
type ScreenDescriptor struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
}

// RoleTabs -> tab set per role, ditentukan sekali saat autentikasi.
// Role tanpa tab (newemployee) harus menyelesaikan setup password dulu.
func RoleTabs(role string) []ScreenDescriptor {
	switch role {
	case RoleClient:
		return []ScreenDescriptor{
			{Name: "Home", Title: "Home", Icon: "icon_home"},
			{Name: "Orders", Title: "Orders", Icon: "icon_orders"},
			{Name: "Help", Title: "Message", Icon: "icon_chat"},
			{Name: "Account", Title: "Account", Icon: "icon_card"},
			{Name: "Profile", Title: "Profile", Icon: "icon_profile"},
		}
	case RoleAdmin:
		return []ScreenDescriptor{
			{Name: "Dashboard", Title: "Dashboard", Icon: "icon_home"},
			{Name: "Tables", Title: "Tables", Icon: "icon_orders"},
			{Name: "Requests", Title: "Requests", Icon: "icon_chat"},
			{Name: "Profile", Title: "Profile", Icon: "icon_profile"},
		}
	case RoleEmployee:
		return []ScreenDescriptor{
			{Name: "Orders", Title: "Orders", Icon: "icon_orders"},
			{Name: "Requests", Title: "Requests", Icon: "icon_chat"},
			{Name: "Profile", Title: "Profile", Icon: "icon_profile"},
		}
	default:
		return nil
	}
}
