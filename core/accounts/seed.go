package accounts

// SeedAccount is an initial account with a clear-text password that is
// hashed when the collection is first written.
type SeedAccount struct {
	Account
	ClearPassword string
}

func DefaultSeed(rootAdminID string) []SeedAccount {
	if rootAdminID == "" {
		rootAdminID = "admin"
	}
	return []SeedAccount{
		{ClearPassword: rootAdminID, Account: Account{
			ID: rootAdminID, Name: "Administrator", Email: "admin@example.com", Phone: "010-0000-0000",
			Address: "123 Teheran-ro, Gangnam-gu, Seoul", AddressDetail: "Suite 123", ZipCode: "06123",
			Role: RoleAdministrator, CreatedAt: "2024-01-01", Status: StatusActive,
		}},
		{ClearPassword: "aaa", Account: Account{
			ID: "aaa", Name: "Kim Cheolsu", Email: "aaa@example.com", Phone: "010-1111-1111",
			Address: "456 Gangnam-daero, Seocho-gu, Seoul", AddressDetail: "", ZipCode: "06611",
			Role: RoleMember, CreatedAt: "2024-01-15", Status: StatusActive,
		}},
		{ClearPassword: "bbb", Account: Account{
			ID: "bbb", Name: "Lee Younghee", Email: "bbb@example.com", Phone: "010-2222-2222",
			Address: "789 Hongik-ro, Mapo-gu, Seoul", AddressDetail: "", ZipCode: "04039",
			Role: RoleMember, CreatedAt: "2024-01-20", Status: StatusActive,
		}},
		{ClearPassword: "ccc", Account: Account{
			ID: "ccc", Name: "Choi Cici", Email: "ccc@example.com", Phone: "010-3333-3333",
			Address: "N/A", Role: RoleMember, CreatedAt: "2024-05-25", Status: StatusPending,
		}},
	}
}
