package registry

import "github.com/glorpus-work/emulatorx/pkg/platform"

func windowsOnly(rel string) map[string]string {
	return map[string]string{platform.Windows: rel}
}

var packages = []Descriptor{
	{
		ID:          "Dolphin",
		DisplayName: "Dolphin",
		DirKey:      "dolphin",
		SourceURL:   "https://dl.dolphin-emu.org/releases/2412/dolphin-2412-x64.7z",
		ArchiveKind: SevenZip,
		Executables: windowsOnly("Dolphin-x64/Dolphin.exe"),
		Version:     "2412",
		Description: "GameCube/Wii Emulator",
		Console:     "nintendo",
	},
	{
		ID:          "Xenia",
		DisplayName: "Xenia",
		DirKey:      "xenia",
		SourceURL:   "https://github.com/xenia-project/release-builds-windows/releases/latest/download/xenia_master.zip",
		ArchiveKind: Zip,
		Executables: windowsOnly("xenia.exe"),
		Version:     "1.0.2817",
		Description: "Xbox 360 Emulator",
		Console:     "xbox",
	},
	{
		ID:          "PCSX2",
		DisplayName: "PCSX2",
		DirKey:      "pcsx2",
		SourceURL:   "https://github.com/PCSX2/pcsx2/releases/download/v2.0.0/pcsx2-v2.0.0-windows-x64-Qt.7z",
		ArchiveKind: SevenZip,
		Executables: windowsOnly("pcsx2-qt.exe"),
		Version:     "2.2.0",
		Description: "PlayStation 2 Emulator",
		Console:     "playstation",
	},
	{
		ID:          "RPCS3",
		DisplayName: "RPCS3",
		DirKey:      "rpcs3",
		SourceURL:   "https://github.com/RPCS3/rpcs3-binaries-win/releases/download/build-394fc8eb79845caaf9528d7c1ac6fd78d653863c/rpcs3-v0.0.34-17416-394fc8eb_win64.7z",
		ArchiveKind: SevenZip,
		Executables: windowsOnly("rpcs3.exe"),
		Version:     "0.0.32",
		Description: "PlayStation 3 Emulator",
		Console:     "playstation",
	},
	{
		ID:          "DuckStation",
		DisplayName: "DuckStation",
		DirKey:      "duckstation",
		SourceURL:   "https://github.com/stenzek/duckstation/releases/download/latest/duckstation-windows-x64-release.zip",
		ArchiveKind: Zip,
		Executables: windowsOnly("duckstation-qt-x64-ReleaseLTCG.exe"),
		Version:     LatestVersion,
		Description: "PlayStation 1 Emulator",
		Console:     "playstation",
	},
	{
		ID:          "mGBA",
		DisplayName: "mGBA",
		DirKey:      "mgba",
		SourceURL:   "https://github.com/mgba-emu/mgba/releases/download/0.10.4/mGBA-0.10.4-win32.7z",
		ArchiveKind: SevenZip,
		Executables: windowsOnly("mGBA.exe"),
		Version:     "0.10.4",
		Description: "Game Boy Advance Emulator",
		Console:     "nintendo",
	},
	{
		ID:          "xemu",
		DisplayName: "xemu",
		DirKey:      "xemu",
		SourceURL:   "https://github.com/xemu-project/xemu/releases/latest/download/xemu-win-x86_64-release.zip",
		ArchiveKind: Zip,
		Executables: windowsOnly("xemu.exe"),
		Version:     "0.8.15",
		Description: "Original Xbox Emulator",
		Console:     "xbox",
	},
	{
		ID:          "PPSSPP",
		DisplayName: "PPSSPP",
		DirKey:      "ppsspp",
		SourceURL:   "https://www.ppsspp.org/files/1_18_1/ppsspp_win.zip",
		ArchiveKind: Zip,
		Executables: windowsOnly("PPSSPPWindows64.exe"),
		Version:     "1.18.1",
		Description: "PSP Emulator",
		Console:     "playstation",
	},
	{
		ID:          "Flycast",
		DisplayName: "Flycast",
		DirKey:      "flycast",
		SourceURL:   "https://github.com/flyinghead/flycast/releases/download/v2.4/flycast-win64-2.4.zip",
		ArchiveKind: Zip,
		Executables: windowsOnly("flycast.exe"),
		Version:     "2.4",
		Description: "Dreamcast Emulator",
		Console:     "sega",
	},
	{
		ID:          "ZSNES",
		DisplayName: "ZSNES",
		DirKey:      "zsnes",
		SourceURL:   "https://www.fosshub.com/ZSNES.html?dwl=zsnes151.zip",
		ArchiveKind: Zip,
		Executables: windowsOnly("zsnesw.exe"),
		Version:     "1.51",
		Description: "Super Nintendo Emulator",
		Console:     "nintendo",
	},
	{
		ID:          "Mesen",
		DisplayName: "Mesen",
		DirKey:      "mesen",
		SourceURL:   "https://nightly.link/SourMesen/Mesen2/workflows/build/master/Mesen%20%28Windows%20-%20net8.0%20-%20AoT%29.zip",
		ArchiveKind: Zip,
		Executables: windowsOnly("Mesen.exe"),
		Version:     "2.0.0",
		Description: "NES/SNES/GB/GBC Emulator",
		Console:     "nintendo",
	},
}
