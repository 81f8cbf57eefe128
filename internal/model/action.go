// Package model はドメインモデルを定義する。
package model

import "time"

// ActionRecord はユーザーが登録した低炭素アクションの記録を表す。
// OwnerID（作成者）のみが更新・削除できる。OwnerID、CreatedAt、IDは作成後不変。
type ActionRecord struct {
	ID             string
	OwnerID        string
	OwnerEmail     string
	ActionType     ActionType
	Quantity       float64
	Unit           string
	Address        string
	Lat            *float64
	Lng            *float64
	IdempotencyKey string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// ActionType は低炭素アクションの種別を表す。
type ActionType string

const (
	// ActionTypeSolarRooftop は屋上太陽光発電。
	ActionTypeSolarRooftop ActionType = "solar_rooftop"
	// ActionTypeSolarWaterHeater は太陽熱温水器。
	ActionTypeSolarWaterHeater ActionType = "swh"
	// ActionTypeRainwaterHarvesting は雨水利用。
	ActionTypeRainwaterHarvesting ActionType = "rwh"
	// ActionTypeWaterlessUrinal は無水小便器。
	ActionTypeWaterlessUrinal ActionType = "waterless_urinal"
	// ActionTypeWastewaterRecycling は排水リサイクル。
	ActionTypeWastewaterRecycling ActionType = "wastewater_recycling"
	// ActionTypeBiogas は生ごみバイオガス。
	ActionTypeBiogas ActionType = "biogas"
	// ActionTypeLEDReplacement はLED照明への交換。
	ActionTypeLEDReplacement ActionType = "led_replacement"
	// ActionTypeTreePlantation は植樹。
	ActionTypeTreePlantation ActionType = "tree_plantation"
)

// ActionTypeInfo はアクション種別の表示名とデフォルト単位を表す。
type ActionTypeInfo struct {
	Value ActionType
	Label string
	Unit  string
}

// ActionTypes は定義済みのアクション種別一覧。
var ActionTypes = []ActionTypeInfo{
	{Value: ActionTypeSolarRooftop, Label: "Solar Rooftop", Unit: "kW"},
	{Value: ActionTypeSolarWaterHeater, Label: "Solar Water Heater", Unit: "liters"},
	{Value: ActionTypeRainwaterHarvesting, Label: "Rainwater Harvesting", Unit: "m³"},
	{Value: ActionTypeWaterlessUrinal, Label: "Waterless Urinal", Unit: "units"},
	{Value: ActionTypeWastewaterRecycling, Label: "Wastewater Recycling", Unit: "m³/day"},
	{Value: ActionTypeBiogas, Label: "Biogas (Food Waste)", Unit: "kg/day"},
	{Value: ActionTypeLEDReplacement, Label: "LED Replacement", Unit: "bulbs"},
	{Value: ActionTypeTreePlantation, Label: "Tree Plantation", Unit: "trees"},
}

// IsValidActionType は定義済みのアクション種別かを検証する。
func IsValidActionType(t ActionType) bool {
	for _, info := range ActionTypes {
		if info.Value == t {
			return true
		}
	}
	return false
}
