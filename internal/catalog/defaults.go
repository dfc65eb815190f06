package catalog

// Built-in FF12 augment tables. Bit n of a field is the n-th entry after NONE.

var defaultFirst = []Entry{
	{Name: NoneName, Mask: 0x00000000, Description: "No augment."},
	{Name: "STABILITY", Mask: 0x00000001, Description: "Prevents Knockback."},
	{Name: "SAFETY", Mask: 0x00000002, Description: "Prevents Instant Death, Warp and the like."},
	{Name: "ACCURACY_BOOST", Mask: 0x00000004, Description: "Improves chance to hit. (Ignore/Null Evade)"},
	{Name: "SHIELD_BOOST", Mask: 0x00000008, Description: "Improves chance to block with a shield"},
	{Name: "EVASION_BOOST", Mask: 0x00000010, Description: "Improves chance of avoiding attacks."},
	{Name: "LAST_STAND", Mask: 0x00000020, Description: "Increases defense when HP Critical."},
	{Name: "COUNTER", Mask: 0x00000040, Description: "When attacked, automatically counter with weapon in hand. (Enables Counter)"},
	{Name: "COUNTER_BOOST", Mask: 0x00000080, Description: "Improves chance to counter. (Gengi Gloves Effect)"},
	{Name: "SPELLBREAKER", Mask: 0x00000100, Description: "Increases magick power when HP Critical."},
	{Name: "BRAWLER", Mask: 0x00000200, Description: "Increases attack power when fighting empty-handed."},
	{Name: "ADRENALINE", Mask: 0x00000400, Description: "Increases strength when HP Critical."},
	{Name: "FOCUS", Mask: 0x00000800, Description: "Increases strength when HP is full."},
	{Name: "LOBBYING", Mask: 0x00001000, Description: "Convert all license points earned to gil. (Cat Ear Hood Effect)"},
	{Name: "COMBO_BOOST", Mask: 0x00002000, Description: "Improves chance of scoring multiple hits."},
	{Name: "ITEM_BOOST", Mask: 0x00004000, Description: "Improves potency of restorative items and fangs. (Pheasant Netsuke Effect)"},
	{Name: "MEDICINE_REVERSE", Mask: 0x00008000, Description: "Reverses effects of restorative items such as potions. (Nihopalaoa Effect)"},
	{Name: "WEATHERPROOF", Mask: 0x00010000, Description: "Nullifies weather and terrain effects. (Agate Ring Effect)"},
	{Name: "THIEVERY", Mask: 0x00020000, Description: "Enables the theft of superior and rare items. (Thief Cuffs Effect)"},
	{Name: "SABOTEUR", Mask: 0x00040000, Description: "Improves chance to strike with magicks. (Ignore/Null Vit | Indigo Pendant Effect)"},
	{Name: "MAGICK_LORE_1", Mask: 0x00080000, Description: "Increases magick potency."},
	{Name: "WARMAGE", Mask: 0x00100000, Description: "Gain MP after dealing magick damage."},
	{Name: "MARTYR", Mask: 0x00200000, Description: "Gain MP after taking damage."},
	{Name: "MAGICK_LORE_2", Mask: 0x00400000, Description: "Increases magick potency."},
	{Name: "HEADSMAN", Mask: 0x00800000, Description: "Gain MP after defeating a foe."},
	{Name: "MAGICK_LORE_3", Mask: 0x01000000, Description: "Increases magick potency."},
	{Name: "TREASURE_HUNTER", Mask: 0x02000000, Description: "Search the deepest recesses of chests, coffers, and the like. (Diamond Armlet Effect)"},
	{Name: "MAGICK_LORE_4", Mask: 0x04000000, Description: "Increases magick potency."},
	{Name: "DOUBLE_EXP", Mask: 0x08000000, Description: "Doubles EXP earned. (Embroidered Tipped Effect)"},
	{Name: "DOUBLE_LP", Mask: 0x10000000, Description: "Doubles license points earned. (Golden Amulet Effect)"},
	{Name: "NO_EXP", Mask: 0x20000000, Description: "Reduces EXP earned to 0. (Firefly Effect)"},
	{Name: "SPELLBOUND", Mask: 0x40000000, Description: "Increases duration of status effects."},
	{Name: "PIERCING_MAGICK", Mask: 0x80000000, Description: "Magicks will not bounce off targets with Reflect status. (Opal Ring Effect)"},
}

var defaultSecond = []Entry{
	{Name: NoneName, Mask: 0x00000000, Description: "No augment."},
	{Name: "OFFERING", Mask: 0x00000001, Description: "Enables casting of magicks with gil, rather than MP. (Turtleshell Choker Effect)"},
	{Name: "MUFFLE", Mask: 0x00000002, Description: "Avoid detection based on sound and magick."},
	{Name: "LIFE_CLOAK", Mask: 0x00000004, Description: "Avoid detection based on low HP."},
	{Name: "BATTLE_LORE_1", Mask: 0x00000008, Description: "Increases physical attack damage."},
	{Name: "PARSIMONY", Mask: 0x00000010, Description: "Reduces MP costs by half."},
	{Name: "TREAD_LIGHTLY", Mask: 0x00000020, Description: "Move safely past traps. (Steel Polyens Effect)"},
	{Name: "UNUSED", Mask: 0x00000040, Description: ""},
	{Name: "EMPTINESS", Mask: 0x00000080, Description: "Reduces max MP to 0."},
	{Name: "RESIST_PIERCE_DAMAGE", Mask: 0x00000100, Description: "Ignores the piercing effects of Guns and the like."},
	{Name: "ANTI_LIBRA", Mask: 0x00000200, Description: "Hides user's vital information from the effect of Libra."},
	{Name: "BATTLE_LORE_2", Mask: 0x00000400, Description: "Increases physical attack damage."},
	{Name: "BATTLE_LORE_3", Mask: 0x00000800, Description: "Increases physical attack damage."},
	{Name: "BATTLE_LORE_4", Mask: 0x00001000, Description: "Increases physical attack damage."},
	{Name: "BATTLE_LORE_5", Mask: 0x00002000, Description: "Increases physical attack damage."},
	{Name: "BATTLE_LORE_6", Mask: 0x00004000, Description: "Increases physical attack damage."},
	{Name: "BATTLE_LORE_7", Mask: 0x00008000, Description: "Increases physical attack damage."},
	{Name: "STONESKIN", Mask: 0x00010000, Description: "Reduces damage taken by 30%."},
	{Name: "ATTACK_BOOST", Mask: 0x00020000, Description: "Increases Attack damage by 20%."},
	{Name: "DOUBLE_EDGED", Mask: 0x00040000, Description: "Increases Attack damage by 50% and user receives damage equal to each Attack."},
	{Name: "SPELLSPRING", Mask: 0x00080000, Description: "Reduces MP costs to 0."},
	{Name: "ELEMENTAL_SHIFT", Mask: 0x00100000, Description: "User gains one elemental weakness and absorbs all others."},
	{Name: "CELERITY", Mask: 0x00200000, Description: "Reduces Attack charge time to 0."},
	{Name: "SWIFT_CAST", Mask: 0x00400000, Description: "Reduces Magick charge time to 0."},
	{Name: "ATTACK_IMMUNITY", Mask: 0x00800000, Description: "User becomes immune to attacks."},
	{Name: "MAGIC_IMMUNITY", Mask: 0x01000000, Description: "User becomes immune to magicks."},
	{Name: "STATUS_IMMUNITY", Mask: 0x02000000, Description: "User becomes immune to statuses."},
	{Name: "DAMAGE_SPIKES", Mask: 0x04000000, Description: "Returns 5% of all damage received to user's attackers."},
	{Name: "SUICIDAL", Mask: 0x08000000, Description: "Compels nearby allies to use Self-Destruct."},
	{Name: "BATTLE_LORE_8", Mask: 0x10000000, Description: "Increases physical attack damage."},
	{Name: "BATTLE_LORE_9", Mask: 0x20000000, Description: "Increases physical attack damage."},
	{Name: "BATTLE_LORE_10", Mask: 0x40000000, Description: "Increases physical attack damage."},
	{Name: "BATTLE_LORE_11", Mask: 0x80000000, Description: "Increases physical attack damage."},
}

// Default returns the built-in catalogs.
func Default() *Set {
	first, err := New(First, defaultFirst)
	if err != nil {
		panic(err)
	}
	second, err := New(Second, defaultSecond)
	if err != nil {
		panic(err)
	}
	return &Set{First: first, Second: second}
}
