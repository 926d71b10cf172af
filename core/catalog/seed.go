package catalog

func img(id string) string {
	return "https://images.unsplash.com/photo-" + id + "?q=80&w=400"
}

// DefaultSeed is the initial storefront catalog.
func DefaultSeed() []Product {
	return []Product{
		{ID: 1, Name: "Men's Classic T-Shirt", Description: "A classic tee in soft cotton that goes with any outfit.", Price: 25000, Image: img("1576566588028-4147f3842f27"), Category: CategoryClothing, Rating: 4.5, Stock: 10},
		{ID: 2, Name: "Women's Skinny Jeans", Description: "Stretchy, shape-holding skinny jeans with a comfortable fit.", Price: 78000, Image: img("1603584950004-245388c3a70b"), Category: CategoryClothing, Rating: 4.8, Stock: 10},
		{ID: 3, Name: "Unisex Hoodie", Description: "Warm fleece-lined hoodie with a relaxed fit for everyone.", Price: 55000, Image: img("1556157382-97eda2d62296"), Category: CategoryClothing, Rating: 4.6, Stock: 10},
		{ID: 4, Name: "Sports Socks (3 Pack)", Description: "Breathable, sweat-wicking sports socks that hold the ankle firmly.", Price: 15000, Image: img("1599393399446-bac25a4d939c"), Category: CategoryClothing, Rating: 4.2, Stock: 10},
		{ID: 5, Name: "Leather Belt", Description: "Durable genuine leather belt with a classic look.", Price: 42000, Image: img("1618357832243-705a67509503"), Category: CategoryClothing, Rating: 4.9, Stock: 10},
		{ID: 6, Name: "Summer Linen Shirt", Description: "Light linen shirt that stays cool through the summer.", Price: 62000, Image: img("1598435130454-d9a71010b9ca"), Category: CategoryClothing, Rating: 4.7, Stock: 10},
		{ID: 7, Name: "Winter Padded Jacket", Description: "Lightweight insulated jacket that keeps you warm in deep winter.", Price: 180000, Image: img("1579327530495-21272b146193"), Category: CategoryClothing, Rating: 4.9, Stock: 10},
		{ID: 8, Name: "Latest Smartphone", Description: "Vivid display and strong performance for the best everyday experience.", Price: 1200000, Image: img("1580910051074-3eb694886505"), Category: CategoryElectronics, Rating: 4.9, Stock: 10},
		{ID: 9, Name: "Noise-Cancelling Headphones", Description: "Blocks outside noise for immersive sound.", Price: 350000, Image: img("1505238680356-6678fb750953"), Category: CategoryElectronics, Rating: 4.8, Stock: 10},
		{ID: 10, Name: "4K Ultra HD TV", Description: "Lifelike picture quality and rich colour.", Price: 2500000, Image: img("1593359677879-a4bb92f829d1"), Category: CategoryElectronics, Rating: 4.9, Stock: 10},
		{ID: 11, Name: "Gaming Laptop", Description: "High-end graphics and fast processing for serious gaming.", Price: 1800000, Image: img("1555263593-52e4210b18f2"), Category: CategoryElectronics, Rating: 4.7, Stock: 10},
		{ID: 12, Name: "Smart Watch", Description: "Tracks your health and your schedule.", Price: 450000, Image: img("1544131750-2985d621da30"), Category: CategoryElectronics, Rating: 4.6, Stock: 10},
		{ID: 13, Name: "Bluetooth Speaker", Description: "Small portable speaker with big sound.", Price: 120000, Image: img("1550009158-94ae76552485"), Category: CategoryElectronics, Rating: 4.5, Stock: 10},
		{ID: 14, Name: "Tablet PC", Description: "Versatile tablet with a sharp screen and long battery life.", Price: 850000, Image: img("1561154464-82e9adf32764"), Category: CategoryElectronics, Rating: 4.7, Stock: 10},
		{ID: 15, Name: "Mastering JavaScript", Description: "From core concepts to real-world practice; a must-read for developers.", Price: 32000, Image: img("1521185496955-15097b20c5fe"), Category: CategoryBooks, Rating: 4.9, Stock: 10},
		{ID: 16, Name: "Recipes for Beginner Cooks", Description: "Easy basics through to special-occasion dishes.", Price: 22000, Image: img("1490645935967-10de6ba17021"), Category: CategoryBooks, Rating: 4.7, Stock: 10},
		{ID: 17, Name: "Mystery Novel: Shadow Murder", Description: "A tightly plotted thriller with twists to the last page.", Price: 18000, Image: img("1529163824719-213c4176785a"), Category: CategoryBooks, Rating: 4.5, Stock: 10},
		{ID: 18, Name: "SF Epic: Beyond the Milky Way", Description: "A sweeping adventure across the galaxy.", Price: 21000, Image: img("1534796636912-3b95b3ab5986"), Category: CategoryBooks, Rating: 4.8, Stock: 10},
		{ID: 19, Name: "Storybook for Children", Description: "Warm stories and beautiful illustrations with a lesson in each.", Price: 15000, Image: img("1516642736469-3d14d809f6bb"), Category: CategoryBooks, Rating: 4.6, Stock: 10},
		{ID: 20, Name: "World History Complete", Description: "World history told simply, with the big picture in view.", Price: 45000, Image: img("1452800185063-6db5e12b8e2e"), Category: CategoryBooks, Rating: 4.9, Stock: 10},
		{ID: 21, Name: "Casual Denim Jacket", Description: "Stylish denim jacket that works in every season.", Price: 89000, Image: img("1595950653106-6c9ebd614d3a"), Category: CategoryClothing, Rating: 4.7, Stock: 15},
		{ID: 22, Name: "Wireless Charging Pad", Description: "Cable-free fast charging for your phone.", Price: 29000, Image: img("1549642385-6494b7352349"), Category: CategoryElectronics, Rating: 4.6, Stock: 20},
		{ID: 23, Name: "Travel Essays: Meeting Myself Abroad", Description: "Moments and lessons collected while travelling the world.", Price: 16000, Image: img("1508635534847-3532a39223a7"), Category: CategoryBooks, Rating: 4.8, Stock: 12},
		{ID: 24, Name: "Cotton Blend Sweater", Description: "Soft cotton sweater for in-between seasons.", Price: 65000, Image: img("1616258417208-149eda916263"), Category: CategoryClothing, Rating: 4.5, Stock: 18},
		{ID: 25, Name: "Portable Mini Projector", Description: "Your own cinema anywhere, with a surprisingly sharp picture.", Price: 280000, Image: img("1617293541285-333758063f10"), Category: CategoryElectronics, Rating: 4.7, Stock: 8},
	}
}
