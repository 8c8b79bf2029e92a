package models

import "testing"

func uintPtr(v uint) *uint { return &v }

func TestIsHeadquarters(t *testing.T) {
	if !RoleMaster.IsHeadquarters() || !RoleHQ.IsHeadquarters() {
		t.Error("master and HQ roles must be headquarters")
	}
	if RoleStore.IsHeadquarters() {
		t.Error("store role must not be headquarters")
	}
}

func TestCanActForStore(t *testing.T) {
	cases := []struct {
		name   string
		role   EmployeeRole
		own    *uint
		target uint
		want   bool
	}{
		{"master anywhere", RoleMaster, nil, 7, true},
		{"hq anywhere", RoleHQ, nil, 7, true},
		{"store on own store", RoleStore, uintPtr(7), 7, true},
		{"store on other store", RoleStore, uintPtr(7), 8, false},
		{"store without store", RoleStore, nil, 7, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.role.CanActForStore(tc.own, tc.target); got != tc.want {
				t.Errorf("CanActForStore = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsHQStaff(t *testing.T) {
	for dept, want := range map[int]bool{2: false, 3: false, 4: true, 10: true, 11: false} {
		e := Employee{DeptID: dept}
		if got := e.IsHQStaff(); got != want {
			t.Errorf("dept %d: IsHQStaff = %v, want %v", dept, got, want)
		}
	}
}

func TestSettlementTypePeriodic(t *testing.T) {
	for typ, want := range map[SettlementType]bool{
		SettlementDaily:   true,
		SettlementMonthly: true,
		SettlementYearly:  true,
		SettlementShift:   false,
	} {
		if got := typ.Periodic(); got != want {
			t.Errorf("%s.Periodic() = %v, want %v", typ, got, want)
		}
	}
}

func TestPromoStatusText(t *testing.T) {
	if PromoOnePlusOne.Text() != "1+1" {
		t.Errorf("PromoOnePlusOne.Text() = %q", PromoOnePlusOne.Text())
	}
	if PromoStatus("9").Text() != "unknown" {
		t.Errorf("unknown promo text = %q", PromoStatus("9").Text())
	}
}
