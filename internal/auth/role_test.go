package auth

import "testing"

// TestParseRole 角色解析大小写不敏感，存储形式统一大写
func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{"CHEF", RoleChef, false},
		{"chef", RoleChef, false},
		{"Chef", RoleChef, false},
		{" customer ", RoleCustomer, false},
		{"CUSTOMER", RoleCustomer, false},
		{"admin", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseRole(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseRole(%q) should fail", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRole(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRole(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestRoleValid(t *testing.T) {
	if !RoleChef.Valid() || !RoleCustomer.Valid() {
		t.Error("canonical roles should be valid")
	}
	if Role("ADMIN").Valid() || Role("chef").Valid() {
		t.Error("non-canonical roles should be invalid")
	}
}
