package game

// standardCards returns the full card list in catalog order: ten levels of
// eleven cards each. Each call builds fresh definitions.
func standardCards() []*Card {
	return []*Card{
		// Level 1
		newCard("1", "Geezard", 1, 5, 4, 1, ElementNone),
		newCard("2", "Funguar", 5, 3, 1, 1, ElementNone),
		newCard("3", "Bite Bug", 1, 5, 3, 3, ElementNone),
		newCard("4", "Red Bat", 6, 2, 1, 1, ElementNone),
		newCard("5", "Blobra", 2, 5, 3, 1, ElementNone),
		newCard("6", "Gayla", 2, 4, 1, 4, ElementThunder),
		newCard("7", "Gesper", 1, 1, 5, 4, ElementNone),
		newCard("8", "Fastitocalon-F", 3, 1, 5, 2, ElementEarth),
		newCard("9", "Blood Soul", 2, 1, 1, 6, ElementNone),
		newCard("10", "Caterchipillar", 4, 3, 2, 4, ElementNone),
		newCard("11", "Cockatrice", 2, 6, 1, 2, ElementThunder),

		// Level 2
		newCard("12", "Grat", 7, 1, 1, 3, ElementNone),
		newCard("13", "Buel", 6, 3, 2, 2, ElementNone),
		newCard("14", "Mesmerize", 5, 4, 3, 3, ElementNone),
		newCard("15", "Glacial Eye", 6, 3, 1, 4, ElementIce),
		newCard("16", "Belhelmel", 3, 3, 4, 5, ElementNone),
		newCard("17", "Thrustaevis", 5, 5, 3, 2, ElementWind),
		newCard("18", "Anacondaur", 5, 5, 1, 3, ElementPoison),
		newCard("19", "Creeps", 5, 2, 2, 5, ElementThunder),
		newCard("20", "Grendel", 4, 2, 4, 5, ElementThunder),
		newCard("21", "Jelleye", 3, 7, 2, 1, ElementNone),
		newCard("22", "Grand Mantis", 5, 3, 2, 5, ElementNone),

		// Level 3
		newCard("23", "Forbidden", 6, 2, 6, 3, ElementNone),
		newCard("24", "Armadodo", 6, 6, 3, 1, ElementEarth),
		newCard("25", "Tri-Face", 3, 5, 5, 5, ElementPoison),
		newCard("26", "Fastitocalon", 7, 3, 5, 1, ElementEarth),
		newCard("27", "Snow Lion", 7, 3, 1, 5, ElementIce),
		newCard("28", "Ochu", 5, 3, 6, 3, ElementNone),
		newCard("29", "SAM08G", 5, 4, 6, 2, ElementFire),
		newCard("30", "Death Claw", 4, 2, 4, 7, ElementFire),
		newCard("31", "Cactuar", 6, 3, 2, 6, ElementNone),
		newCard("32", "Tonberry", 3, 4, 6, 4, ElementNone),
		newCard("33", "Abyss Worm", 7, 5, 2, 3, ElementEarth),

		// Level 4
		newCard("34", "Turtapod", 2, 7, 3, 6, ElementNone),
		newCard("35", "Vysage", 6, 5, 5, 4, ElementNone),
		newCard("36", "T-Rexaur", 4, 7, 6, 2, ElementNone),
		newCard("37", "Bomb", 2, 3, 7, 6, ElementFire),
		newCard("38", "Blitz", 1, 7, 6, 4, ElementThunder),
		newCard("39", "Wendigo", 7, 6, 3, 1, ElementNone),
		newCard("40", "Torama", 7, 4, 4, 4, ElementNone),
		newCard("41", "Imp", 3, 6, 7, 3, ElementNone),
		newCard("42", "Blue Dragon", 6, 3, 2, 7, ElementPoison),
		newCard("43", "Adamantoise", 4, 6, 5, 5, ElementEarth),
		newCard("44", "Hexadragon", 7, 3, 5, 4, ElementFire),

		// Level 5
		newCard("45", "Iron Giant", 6, 5, 5, 6, ElementNone),
		newCard("46", "Behemoth", 3, 7, 6, 5, ElementNone),
		newCard("47", "Chimera", 7, 3, 6, 5, ElementWater),
		newCard("48", "PuPu", 3, 1, 10, 2, ElementNone),
		newCard("49", "Elastoid", 6, 7, 2, 6, ElementNone),
		newCard("50", "GIM47N", 5, 4, 5, 7, ElementNone),
		newCard("51", "Malboro", 7, 2, 7, 4, ElementPoison),
		newCard("52", "Ruby Dragon", 7, 4, 2, 7, ElementFire),
		newCard("53", "Elnoyle", 5, 6, 3, 7, ElementNone),
		newCard("54", "Tonberry King", 4, 4, 6, 7, ElementNone),
		newCard("55", "Wedge, Biggs", 6, 7, 6, 2, ElementNone),

		// Level 6
		newCard("56", "Fujin Raijin", 2, 4, 8, 8, ElementNone),
		newCard("57", "Elvoret", 7, 4, 8, 3, ElementWind),
		newCard("58", "X-ATM092", 4, 3, 8, 7, ElementNone),
		newCard("59", "Granaldo", 7, 5, 2, 8, ElementNone),
		newCard("60", "Gerogero", 1, 3, 8, 8, ElementPoison),
		newCard("61", "Iguion", 8, 2, 2, 8, ElementNone),
		newCard("62", "Abadon", 6, 5, 8, 4, ElementNone),
		newCard("63", "Trauma", 4, 6, 8, 5, ElementNone),
		newCard("64", "Oilboyle", 1, 8, 8, 4, ElementNone),
		newCard("65", "Shumi", 6, 4, 5, 8, ElementNone),
		newCard("66", "Krysta", 7, 1, 5, 8, ElementNone),

		// Level 7
		newCard("67", "Propagator", 8, 8, 4, 4, ElementNone),
		newCard("68", "Jumbo Cactuar", 8, 4, 8, 4, ElementNone),
		newCard("69", "Tri-Point", 8, 8, 5, 2, ElementThunder),
		newCard("70", "Gargantua", 5, 8, 6, 6, ElementNone),
		newCard("71", "Mobile Type 8", 8, 3, 6, 7, ElementNone),
		newCard("72", "Sphinxara", 8, 8, 3, 5, ElementNone),
		newCard("73", "Tiamat", 8, 4, 8, 5, ElementNone),
		newCard("74", "BGH251F2", 5, 5, 7, 8, ElementNone),
		newCard("75", "Red Giant", 6, 7, 8, 4, ElementNone),
		newCard("76", "Catoblepas", 1, 7, 8, 7, ElementNone),
		newCard("77", "Ultima Weapon", 7, 8, 7, 2, ElementNone),

		// Level 8
		newCard("78", "Chubby Chocobo", 4, 9, 4, 8, ElementNone),
		newCard("79", "Angelo", 9, 3, 6, 7, ElementNone),
		newCard("80", "Gilgamesh", 3, 6, 7, 9, ElementNone),
		newCard("81", "MiniMog", 9, 2, 3, 9, ElementNone),
		newCard("82", "Chicobo", 9, 4, 4, 8, ElementNone),
		newCard("83", "Quezacotl", 2, 4, 9, 9, ElementThunder),
		newCard("84", "Shiva", 6, 9, 7, 4, ElementIce),
		newCard("85", "Ifrit", 9, 8, 6, 2, ElementFire),
		newCard("86", "Siren", 8, 2, 9, 6, ElementNone),
		newCard("87", "Sacred", 5, 9, 1, 9, ElementEarth),
		newCard("88", "Minotaur", 9, 9, 5, 2, ElementEarth),

		// Level 9
		newCard("89", "Carbuncle", 8, 4, 4, 10, ElementNone),
		newCard("90", "Diablos", 5, 3, 10, 8, ElementNone),
		newCard("91", "Leviathan", 7, 7, 10, 1, ElementWater),
		newCard("92", "Odin", 8, 5, 10, 3, ElementNone),
		newCard("93", "Pandemona", 10, 7, 1, 7, ElementWind),
		newCard("94", "Cerberus", 7, 10, 4, 6, ElementNone),
		newCard("95", "Alexander", 9, 2, 10, 4, ElementHoly),
		newCard("96", "Phoenix", 7, 10, 2, 7, ElementFire),
		newCard("97", "Bahamut", 10, 6, 8, 2, ElementNone),
		newCard("98", "Doomtrain", 3, 10, 1, 10, ElementPoison),
		newCard("99", "Eden", 4, 10, 4, 9, ElementNone),

		// Level 10
		newCard("100", "Ward", 10, 8, 7, 2, ElementNone),
		newCard("101", "Kiros", 6, 10, 7, 6, ElementNone),
		newCard("102", "Laguna", 5, 9, 10, 3, ElementNone),
		newCard("103", "Selphie", 10, 4, 8, 6, ElementNone),
		newCard("104", "Quistis", 9, 2, 6, 10, ElementNone),
		newCard("105", "Irvine", 2, 10, 6, 9, ElementNone),
		newCard("106", "Zell", 8, 6, 5, 10, ElementNone),
		newCard("107", "Rinoa", 4, 10, 10, 2, ElementNone),
		newCard("108", "Edea", 10, 3, 10, 3, ElementNone),
		newCard("109", "Seifer", 6, 4, 9, 10, ElementNone),
		newCard("110", "Squall", 10, 9, 4, 6, ElementNone),
	}
}
