package potential

import (
	"strconv"
	"strings"
)

// PartsType - item category code as used by the cube simulator UI
type PartsType int

const (
	PartsUnknown PartsType = iota
	PartsWeapon
	PartsEmblem
	PartsSecondary
	PartsForceShield // force shield / soul ring
	PartsShield
	PartsFace
	PartsEye
	PartsEarring
	PartsRing
	PartsPendant
	PartsHat
	PartsTop
	PartsOverall
	PartsBottom
	PartsShoes
	PartsGlove
	PartsCape
	PartsBelt
	PartsShoulder
	PartsHeart
)

// ItemClass - coarse class that decides which evaluation policy applies
type ItemClass int

const (
	ClassUnknown ItemClass = iota
	ClassWeaponLike
	ClassAccessory
	ClassArmor
)

func (c ItemClass) String() string {
	switch c {
	case ClassWeaponLike:
		return "weapon_like"
	case ClassAccessory:
		return "accessory"
	case ClassArmor:
		return "armor"
	}
	return "unknown"
}

var partsNames = map[PartsType]string{
	PartsWeapon:      "weapon",
	PartsEmblem:      "emblem",
	PartsSecondary:   "secondary",
	PartsForceShield: "force_shield",
	PartsShield:      "shield",
	PartsFace:        "face",
	PartsEye:         "eye",
	PartsEarring:     "earring",
	PartsRing:        "ring",
	PartsPendant:     "pendant",
	PartsHat:         "hat",
	PartsTop:         "top",
	PartsOverall:     "overall",
	PartsBottom:      "bottom",
	PartsShoes:       "shoes",
	PartsGlove:       "glove",
	PartsCape:        "cape",
	PartsBelt:        "belt",
	PartsShoulder:    "shoulder",
	PartsHeart:       "heart",
}

// Korean labels shown in game and in the simulator's parts dropdown.
var partsLabels = map[PartsType]string{
	PartsWeapon:      "무기",
	PartsEmblem:      "엠블렘",
	PartsSecondary:   "보조무기",
	PartsForceShield: "포스실드",
	PartsShield:      "방패",
	PartsFace:        "얼굴장식",
	PartsEye:         "눈장식",
	PartsEarring:     "귀고리",
	PartsRing:        "반지",
	PartsPendant:     "펜던트",
	PartsHat:         "모자",
	PartsTop:         "상의",
	PartsOverall:     "한벌옷",
	PartsBottom:      "하의",
	PartsShoes:       "신발",
	PartsGlove:       "장갑",
	PartsCape:        "망토",
	PartsBelt:        "벨트",
	PartsShoulder:    "어깨장식",
	PartsHeart:       "기계심장",
}

// partsKorean resolves labels back to codes, aliases included.
var partsKorean = func() map[string]PartsType {
	m := map[string]PartsType{"소울링": PartsForceShield}
	for p, label := range partsLabels {
		m[label] = p
	}
	return m
}()

func (p PartsType) String() string {
	if name, ok := partsNames[p]; ok {
		return name
	}
	return "unknown"
}

// Korean returns the in-game label.
func (p PartsType) Korean() string {
	if label, ok := partsLabels[p]; ok {
		return label
	}
	return "알 수 없음"
}

// Class maps a parts code onto its item class.
func (p PartsType) Class() ItemClass {
	switch p {
	case PartsWeapon, PartsEmblem, PartsSecondary, PartsForceShield, PartsShield:
		return ClassWeaponLike
	case PartsFace, PartsEye, PartsEarring, PartsRing, PartsPendant:
		return ClassAccessory
	case PartsHat, PartsTop, PartsOverall, PartsBottom, PartsShoes,
		PartsGlove, PartsCape, PartsBelt, PartsShoulder, PartsHeart:
		return ClassArmor
	}
	return ClassUnknown
}

// ParsePartsType accepts a numeric code, an English name or the Korean label.
func ParsePartsType(s string) PartsType {
	s = strings.TrimSpace(s)
	if s == "" {
		return PartsUnknown
	}
	if n, err := strconv.Atoi(s); err == nil {
		p := PartsType(n)
		if _, ok := partsNames[p]; ok {
			return p
		}
		return PartsUnknown
	}
	lower := strings.ToLower(s)
	for p, name := range partsNames {
		if name == lower {
			return p
		}
	}
	if p, ok := partsKorean[s]; ok {
		return p
	}
	return PartsUnknown
}

// RollKind - which potential tier a cube rolls
type RollKind int

const (
	RollMain RollKind = iota
	RollAdditional
)

func (k RollKind) String() string {
	if k == RollAdditional {
		return "additional"
	}
	return "main"
}

const (
	CubeIDMain       = "5062010"
	CubeIDRed        = "5062009"
	CubeIDAdditional = "5062500"
)

// ResolveRollKind maps a cube id onto its roll tier. Unknown ids roll the main tier.
func ResolveRollKind(cubeID string) RollKind {
	switch strings.TrimSpace(cubeID) {
	case CubeIDAdditional:
		return RollAdditional
	default:
		return RollMain
	}
}
